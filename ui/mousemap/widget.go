// Package mousemap provides the fyne widget that shows a device
// illustration with configuration controls laid out around it.
package mousemap

import (
	"errors"
	"fmt"
	"image"
	"sync"

	mapengine "piper/internal/mousemap"
	"piper/pkg/geometry"

	"github.com/charmbracelet/log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ErrLayerNotFound is returned by New when the document has no element with
// the layer id.
var ErrLayerNotFound = errors.New("layer not found in illustration")

// MouseMap is a container drawing a device illustration with controls
// attached to anchors in it.
type MouseMap struct {
	widget.BaseWidget

	// mu serializes engine access between fyne's event and draw goroutines.
	mu       sync.Mutex
	engine   *mapengine.Engine
	raster   *fynecanvas.Raster
	controls []*control
	logger   *log.Logger
}

// control adapts a fyne Control to the engine's Control interface.
type control struct {
	obj Control
	m   *MouseMap
}

func toSize(s fyne.Size) geometry.Size {
	return geometry.NewSize(float64(s.Width), float64(s.Height))
}

func (c *control) MinSize() geometry.Size     { return toSize(c.obj.MinSize()) }
func (c *control) NaturalSize() geometry.Size { return toSize(c.obj.MinSize()) }
func (c *control) Visible() bool              { return c.obj.Visible() }

func (c *control) Place(r geometry.Rect) {
	at, size := r.TopLeft(), r.Size()
	c.obj.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	c.obj.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
}

func (c *control) Observe(enter, leave func()) func() {
	return c.obj.Observe(c.m.locked(enter), c.m.locked(leave))
}

// New creates a MouseMap for doc, drawing layer as the interactive layer.
// The spacing and border options are passed through to the layout engine.
func New(doc mapengine.Document, layer string, logger *log.Logger, opts ...mapengine.Option) (*MouseMap, error) {
	if logger == nil {
		logger = log.Default()
	}
	if doc != nil && !doc.Has(layer) {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, layer)
	}
	m := &MouseMap{logger: logger}

	opts = append([]mapengine.Option{mapengine.WithLogger(logger)}, opts...)
	opts = append(opts, mapengine.WithInvalidator(m.invalidate))
	engine, err := mapengine.New(doc, layer, opts...)
	if err != nil {
		return nil, err
	}
	m.engine = engine

	m.raster = fynecanvas.NewRaster(m.draw)
	m.raster.ScaleMode = fynecanvas.ImageScalePixels
	m.ExtendBaseWidget(m)
	return m, nil
}

func (m *MouseMap) locked(fn func()) func() {
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		fn()
	}
}

// invalidate runs with m.mu held, from inside the engine.
func (m *MouseMap) invalidate(area geometry.Rect) {
	m.logger.Debug("redraw", "x", area.X, "y", area.Y, "w", area.Width, "h", area.Height)
	fynecanvas.Refresh(m.raster)
}

// Attach binds obj to the anchor id and returns whether it was added.
func (m *MouseMap) Attach(obj Control, id string) bool {
	if obj == nil {
		return false
	}
	m.mu.Lock()
	c := &control{obj: obj, m: m}
	ok := m.engine.Attach(c, id)
	if ok {
		m.controls = append(m.controls, c)
	}
	m.mu.Unlock()

	if ok {
		m.Refresh()
	}
	return ok
}

// Detach removes obj from the map. Unknown objects are ignored.
func (m *MouseMap) Detach(obj Control) {
	m.mu.Lock()
	found := false
	for i, c := range m.controls {
		if c.obj == obj {
			m.engine.Detach(c)
			m.controls = append(m.controls[:i], m.controls[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()

	if found {
		m.Refresh()
	}
}

// Controls returns the attached objects in attach order.
func (m *MouseMap) Controls() []Control {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Control, len(m.controls))
	for i, c := range m.controls {
		out[i] = c.obj
	}
	return out
}

// Spacing returns the gap between the illustration and the controls.
func (m *MouseMap) Spacing() float32 {
	return float32(m.engine.Spacing())
}

// Highlighted returns the anchor id currently highlighted, if any.
func (m *MouseMap) Highlighted() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.engine.Highlighted()
	return a.ID(), ok
}

// Close detaches every control.
func (m *MouseMap) Close() {
	m.mu.Lock()
	m.engine.Close()
	m.controls = nil
	m.mu.Unlock()
}

// draw is the raster generator; w and h are in device pixels.
func (m *MouseMap) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	scale := 1.0
	if size := m.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	tint := theme.ColorForWidget(theme.ColorNameHyperlink, m)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.Paint(dst, mapengine.PaintOptions{Tint: tint, Scale: scale})
	return dst
}

// CreateRenderer implements fyne.Widget.
func (m *MouseMap) CreateRenderer() fyne.WidgetRenderer {
	return &mouseMapRenderer{m: m}
}

type mouseMapRenderer struct {
	m *MouseMap
}

func (r *mouseMapRenderer) Layout(size fyne.Size) {
	r.m.raster.Move(fyne.NewPos(0, 0))
	r.m.raster.Resize(size)

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.engine.MeasureWidth()
	r.m.engine.Arrange(geometry.NewRect(0, 0, float64(size.Width), float64(size.Height)))
}

func (r *mouseMapRenderer) MinSize() fyne.Size {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, w := r.m.engine.MeasureWidth()
	_, h := r.m.engine.MeasureHeight()
	return fyne.NewSize(float32(w), float32(h))
}

func (r *mouseMapRenderer) Refresh() {
	r.Layout(r.m.Size())
	r.m.raster.Refresh()
}

// Objects puts the illustration first so controls are drawn and hit-tested above it.
func (r *mouseMapRenderer) Objects() []fyne.CanvasObject {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	objects := make([]fyne.CanvasObject, 0, len(r.m.controls)+1)
	objects = append(objects, r.m.raster)
	for _, c := range r.m.controls {
		objects = append(objects, c.obj)
	}
	return objects
}

func (r *mouseMapRenderer) Destroy() {}
