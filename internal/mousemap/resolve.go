package mousemap

import (
	"piper/pkg/geometry"

	"github.com/charmbracelet/log"
)

// Resolver looks up element geometry and logs the elements it cannot find.
type Resolver struct {
	doc    Document
	logger *log.Logger
}

// NewResolver creates a Resolver over doc. A nil logger uses log.Default().
func NewResolver(doc Document, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{doc: doc, logger: logger}
}

// Resolve returns the document-space box of id. When found is false the box
// is zero and a warning has been logged; callers skip whatever needed it.
func (r *Resolver) Resolve(id string) (box geometry.Rect, found bool) {
	box, found = r.doc.Bounds(id)
	if !found {
		r.logger.Warn("cannot retrieve element geometry", "id", id)
		return geometry.Rect{}, false
	}
	return box, true
}
