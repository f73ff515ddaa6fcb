// Package mousemap lays out configuration controls around a device
// illustration.
//
// The Engine draws the illustration in a center column and places each
// attached control beside the leader element of its anchor: leaders in the
// left part of the illustration put their control in a left column, all
// others go to the right. Hovering a control highlights the shape of its
// anchor in the illustration.
//
// The engine is toolkit independent. A host widget forwards its size
// requests to Measure, its allocation to Arrange and its paint cycle to
// Paint, and supplies an invalidation callback for partial redraws. All
// methods are expected to run on the host's UI goroutine.
package mousemap

import (
	"errors"
	"fmt"

	"piper/pkg/geometry"

	"github.com/charmbracelet/log"
)

const (
	// DefaultSpacing is the gap between the illustration and the control columns.
	DefaultSpacing = 10

	// leftThreshold is the largest leader x (document units) of a left column control.
	leftThreshold = 100

	// DeviceElement is drawn tinted underneath everything else.
	DeviceElement = "Device"
)

var (
	// ErrNilDocument is returned by New when no document is given.
	ErrNilDocument = errors.New("mousemap: document cannot be nil")
	// ErrNoLayer is returned by New when no layer id is given.
	ErrNoLayer = errors.New("mousemap: layer cannot be empty")
)

// Engine is the anchored layout container.
type Engine struct {
	doc        Document
	layer      string
	spacing    float64
	border     float64
	logger     *log.Logger
	invalidate func(geometry.Rect)

	resolver *Resolver
	children registry

	leftColumnWidth float64
	measured        bool

	highlight   Anchor
	highlighted bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithSpacing sets the gap between the illustration and the controls.
func WithSpacing(spacing float64) Option {
	return func(e *Engine) error {
		if spacing < 0 {
			return fmt.Errorf("mousemap: negative spacing %g", spacing)
		}
		e.spacing = spacing
		return nil
	}
}

// WithBorderWidth sets the border around the whole container.
func WithBorderWidth(width float64) Option {
	return func(e *Engine) error {
		if width < 0 {
			return fmt.Errorf("mousemap: negative border width %g", width)
		}
		e.border = width
		return nil
	}
}

// WithLogger sets the logger used for geometry warnings.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithInvalidator sets the callback receiving areas that need a redraw, in
// container coordinates.
func WithInvalidator(fn func(geometry.Rect)) Option {
	return func(e *Engine) error {
		e.invalidate = fn
		return nil
	}
}

// New creates an engine drawing doc with layer as the interactive layer on top.
func New(doc Document, layer string, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if layer == "" {
		return nil, ErrNoLayer
	}

	e := &Engine{
		doc:     doc,
		layer:   layer,
		spacing: DefaultSpacing,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.resolver = NewResolver(doc, e.logger)
	return e, nil
}

// Spacing returns the configured spacing.
func (e *Engine) Spacing() float64 { return e.spacing }

// BorderWidth returns the configured border width.
func (e *Engine) BorderWidth() float64 { return e.border }

// Layer returns the id of the interactive layer.
func (e *Engine) Layer() string { return e.layer }

// LeftColumnWidth returns the width reserved left of the illustration,
// including its spacing, as computed by the last width measurement.
func (e *Engine) LeftColumnWidth() float64 { return e.leftColumnWidth }

// RequestMode always reports ConstantSize: the illustration does not reflow.
func (e *Engine) RequestMode() RequestMode { return ConstantSize }

// Len returns the number of attached controls.
func (e *Engine) Len() int { return len(e.children.items) }

// Controls returns the attached controls in attach order.
func (e *Engine) Controls() []Control {
	out := make([]Control, len(e.children.items))
	for i, a := range e.children.items {
		out[i] = a.control
	}
	return out
}

// IsLeft reports whether c is attached in the left column.
func (e *Engine) IsLeft(c Control) (left, attached bool) {
	i := e.children.indexOf(c)
	if i < 0 {
		return false, false
	}
	return e.children.items[i].left, true
}

// Attach binds c to the anchor id. It returns false and changes nothing when
// c or id is empty, when either the anchor or its leader is missing from the
// document, or when c or the anchor is already attached.
func (e *Engine) Attach(c Control, id string) bool {
	if c == nil || id == "" {
		return false
	}
	anchor := Anchor(id)
	if !e.doc.Has(anchor.ID()) || !e.doc.Has(anchor.Leader()) {
		e.logger.Debug("anchor not in document", "anchor", id)
		return false
	}
	if e.children.indexOf(c) >= 0 || e.children.hasAnchor(anchor) {
		e.logger.Debug("anchor or control already attached", "anchor", id)
		return false
	}

	// An unresolvable leader is treated as right aligned.
	left := false
	if box, ok := e.resolver.Resolve(anchor.Leader()); ok {
		left = box.X <= leftThreshold
	}

	a := &attachment{control: c, anchor: anchor, left: left}
	a.cancel = c.Observe(
		func() { e.pointerEnter(a) },
		func() { e.pointerLeave() },
	)
	e.children.add(a)
	e.measured = false
	return true
}

// Detach removes c from the layout. Unknown controls are ignored.
func (e *Engine) Detach(c Control) {
	i := e.children.indexOf(c)
	if i < 0 {
		return
	}
	a := e.children.remove(i)
	if a.cancel != nil {
		a.cancel()
	}
	e.measured = false
	if e.highlighted && e.highlight == a.anchor {
		e.pointerLeave()
	}
}

// Close detaches every control.
func (e *Engine) Close() {
	for len(e.children.items) > 0 {
		e.Detach(e.children.items[0].control)
	}
}

// Measure returns the minimum and natural size along the given axis.
func (e *Engine) Measure(o Orientation) (minimum, natural float64) {
	if o == Vertical {
		return e.MeasureHeight()
	}
	return e.MeasureWidth()
}

// MeasureHeight returns the larger of the illustration height and the summed
// heights of the visible controls, plus the border.
func (e *Engine) MeasureHeight() (minimum, natural float64) {
	svgHeight := e.doc.Size().Height
	var childMin, childNat float64
	for _, a := range e.children.items {
		if !a.control.Visible() {
			continue
		}
		childMin += a.control.MinSize().Height
		childNat += a.control.NaturalSize().Height
	}
	minimum = max(svgHeight, childMin) + 2*e.border
	natural = max(svgHeight, childNat) + 2*e.border
	return minimum, natural
}

// MeasureWidth returns the width of both control columns, the illustration,
// spacing and border. Minimum and natural are the same. As a side effect
// the left column width used by Arrange and Paint is updated.
func (e *Engine) MeasureWidth() (minimum, natural float64) {
	svgWidth := e.doc.Size().Width
	var leftWidth, rightWidth float64
	for _, a := range e.children.items {
		if !a.control.Visible() {
			continue
		}
		w := a.control.NaturalSize().Width
		if a.left {
			leftWidth = max(leftWidth, w)
		} else {
			rightWidth = max(rightWidth, w)
		}
	}

	natural = leftWidth + svgWidth + e.spacing + rightWidth + 2*e.border
	e.leftColumnWidth = 0
	if leftWidth > 0 {
		natural += e.spacing
		e.leftColumnWidth = leftWidth + e.spacing
	}
	e.measured = true
	return natural, natural
}

// Arrange places every visible control at its natural size, vertically
// centered on its leader. alloc is the rectangle the host gave the container.
func (e *Engine) Arrange(alloc geometry.Rect) {
	if !e.measured {
		e.MeasureWidth()
	}
	svgWidth := e.doc.Size().Width

	for _, a := range e.children.items {
		if !a.control.Visible() {
			continue
		}
		leader, ok := e.resolver.Resolve(a.anchor.Leader())
		if !ok {
			continue
		}

		nat := a.control.NaturalSize()
		pos := geometry.NewPoint2D(e.border, leader.Y-0.5*nat.Height)
		if !a.left {
			pos.X += e.leftColumnWidth + svgWidth + e.spacing
		}
		if ap, ok := a.control.(AbsolutePositioner); ok && ap.AbsolutePositioned() {
			pos = pos.Add(alloc.TopLeft())
		}
		a.control.Place(geometry.NewRect(pos.X, pos.Y, nat.Width, nat.Height))
	}
}

// illustrationOrigin is where document (0, 0) lands in container coordinates.
func (e *Engine) illustrationOrigin() geometry.Point2D {
	return geometry.NewPoint2D(e.border+e.leftColumnWidth, e.border)
}
