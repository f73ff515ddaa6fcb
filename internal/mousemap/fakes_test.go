package mousemap

import (
	"image"
	"image/color"
	"image/draw"

	"piper/pkg/geometry"
)

// fakeDocument answers lookups from a fixed table of boxes. Ids in hasOnly
// exist but have no geometry.
type fakeDocument struct {
	size    geometry.Size
	boxes   map[string]geometry.Rect
	hasOnly map[string]bool
	renders []string
}

func newFakeDocument(w, h float64) *fakeDocument {
	return &fakeDocument{
		size:    geometry.NewSize(w, h),
		boxes:   make(map[string]geometry.Rect),
		hasOnly: make(map[string]bool),
	}
}

// withAnchor adds an anchor region and its leader at (x, y).
func (d *fakeDocument) withAnchor(id string, x, y float64) *fakeDocument {
	d.boxes[id] = geometry.NewRect(x, y, 20, 10)
	d.boxes[id+LeaderSuffix] = geometry.NewRect(x, y, 1, 1)
	return d
}

func (d *fakeDocument) Size() geometry.Size { return d.size }

func (d *fakeDocument) Has(id string) bool {
	_, ok := d.boxes[id]
	return ok || d.hasOnly[id]
}

func (d *fakeDocument) Bounds(id string) (geometry.Rect, bool) {
	r, ok := d.boxes[id]
	return r, ok
}

// Render fills the element's box with opaque white.
func (d *fakeDocument) Render(dst draw.Image, id string, origin geometry.Point2D, scale float64) error {
	d.renders = append(d.renders, id)
	box, ok := d.boxes[id]
	if !ok {
		return nil
	}
	at := dst.Bounds().Min
	r := box.Scale(scale).Translate(origin.X+float64(at.X), origin.Y+float64(at.Y)).ToImage()
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(color.White), image.Point{}, draw.Src)
	return nil
}

// fakeControl records placement and exposes its hover callbacks.
type fakeControl struct {
	min, nat  geometry.Size
	hidden    bool
	absolute  bool
	placed    geometry.Rect
	placeHits int

	enter, leave func()
	cancels      int
}

func newFakeControl(w, h float64) *fakeControl {
	return &fakeControl{min: geometry.NewSize(w/2, h/2), nat: geometry.NewSize(w, h)}
}

func (c *fakeControl) MinSize() geometry.Size     { return c.min }
func (c *fakeControl) NaturalSize() geometry.Size { return c.nat }
func (c *fakeControl) Visible() bool              { return !c.hidden }

func (c *fakeControl) Place(r geometry.Rect) {
	c.placed = r
	c.placeHits++
}

func (c *fakeControl) Observe(enter, leave func()) func() {
	c.enter, c.leave = enter, leave
	return func() {
		c.enter, c.leave = nil, nil
		c.cancels++
	}
}

// absoluteControl positions itself in surface coordinates.
type absoluteControl struct {
	*fakeControl
}

func (c absoluteControl) AbsolutePositioned() bool { return c.absolute }
