package mousemap

import (
	"image/draw"

	"piper/pkg/geometry"
)

// Document is the device illustration the engine lays controls out against.
// *svgdoc.Document satisfies it.
type Document interface {
	Size() geometry.Size
	Has(id string) bool
	Bounds(id string) (geometry.Rect, bool)
	// Render draws id with origin measured from dst.Bounds().Min.
	Render(dst draw.Image, id string, origin geometry.Point2D, scale float64) error
}

// Control is a host widget placed next to the illustration. Implementations
// must be comparable (typically pointers); the engine identifies controls by
// equality and never owns them.
type Control interface {
	MinSize() geometry.Size
	NaturalSize() geometry.Size
	Visible() bool

	// Place assigns the control its final rectangle.
	Place(r geometry.Rect)

	// Observe registers pointer crossing callbacks and returns a function
	// that removes them.
	Observe(enter, leave func()) (cancel func())
}

// AbsolutePositioner is implemented by controls that are positioned in
// surface coordinates rather than relative to the container. Such controls
// get the container's allocation origin added to their rectangle.
type AbsolutePositioner interface {
	AbsolutePositioned() bool
}

// Orientation selects the axis for Measure.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// RequestMode tells the host how the container trades width for height.
type RequestMode int

const (
	HeightForWidth RequestMode = iota
	WidthForHeight
	// ConstantSize means the size does not depend on the other axis.
	ConstantSize
)
