package mousemap

import (
	"image"
	"testing"

	"piper/data"
	"piper/internal/svgdoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

func loadFallback(t *testing.T) *svgdoc.Document {
	t.Helper()
	doc, err := svgdoc.LoadFS(data.SVGs, "svgs/"+svgdoc.FallbackSVG)
	require.NoError(t, err)
	return doc
}

func newTestMap(t *testing.T, layer string) *MouseMap {
	t.Helper()
	test.NewApp()
	m, err := New(loadFallback(t), layer, nil)
	require.NoError(t, err)
	return m
}

func TestNewRejectsMissingLayer(t *testing.T) {
	test.NewApp()
	_, err := New(loadFallback(t), "Wheels", nil)
	assert.ErrorIs(t, err, ErrLayerNotFound)
}

func TestMouseMapLayout(t *testing.T) {
	m := newTestMap(t, "Buttons")
	left := NewHoverButton("Left", nil)
	right := NewHoverButton("Right", nil)
	require.True(t, m.Attach(left, "button0"))
	require.True(t, m.Attach(right, "button1"))
	assert.False(t, m.Attach(NewHoverButton("Other", nil), "button0"), "anchor already taken")
	assert.False(t, m.Attach(NewHoverButton("Ghost", nil), "button9"), "no such anchor")

	lw, rw := left.MinSize().Width, right.MinSize().Width
	min := m.MinSize()
	assert.InDelta(t, lw+10+450+10+rw, min.Width, 0.01)
	assert.InDelta(t, 450, min.Height, 0.01)

	m.Resize(min)

	assert.InDelta(t, 0, left.Position().X, 0.01)
	assert.InDelta(t, 120-left.MinSize().Height/2, left.Position().Y, 0.01)
	assert.Equal(t, left.MinSize(), left.Size())

	assert.InDelta(t, lw+10+450+10, right.Position().X, 0.01)
	assert.InDelta(t, 120-right.MinSize().Height/2, right.Position().Y, 0.01)
}

func TestMouseMapDetach(t *testing.T) {
	m := newTestMap(t, "Buttons")
	b := NewHoverButton("Left", nil)
	require.True(t, m.Attach(b, "button0"))
	assert.Len(t, m.Controls(), 1)

	m.Detach(b)
	assert.Empty(t, m.Controls())
	assert.InDelta(t, 460, m.MinSize().Width, 0.01)

	// the anchor is free again
	assert.True(t, m.Attach(b, "button0"))
}

func TestMouseMapHover(t *testing.T) {
	m := newTestMap(t, "Buttons")
	b := NewHoverButton("Left", nil)
	require.True(t, m.Attach(b, "button0"))
	m.Resize(m.MinSize())

	_, ok := m.Highlighted()
	assert.False(t, ok)

	b.MouseIn(&desktop.MouseEvent{})
	id, ok := m.Highlighted()
	assert.True(t, ok)
	assert.Equal(t, "button0", id)

	b.MouseOut()
	_, ok = m.Highlighted()
	assert.False(t, ok)

	b.MouseIn(&desktop.MouseEvent{})
	m.Detach(b)
	_, ok = m.Highlighted()
	assert.False(t, ok, "detaching the hovered control clears the highlight")
}

func TestHoverBoxReportsCrossings(t *testing.T) {
	m := newTestMap(t, "LEDs")
	box := NewHoverBox(widget.NewLabel("LED 0"))
	require.True(t, m.Attach(box, "led0"))

	box.MouseIn(&desktop.MouseEvent{})
	id, ok := m.Highlighted()
	assert.True(t, ok)
	assert.Equal(t, "led0", id)

	box.MouseOut()
	_, ok = m.Highlighted()
	assert.False(t, ok)
}

func TestObserveCancel(t *testing.T) {
	b := NewHoverButton("x", nil)
	enters := 0
	cancel := b.Observe(func() { enters++ }, nil)
	b.MouseIn(&desktop.MouseEvent{})
	cancel()
	b.MouseIn(&desktop.MouseEvent{})
	assert.Equal(t, 1, enters)
}

func TestMouseMapDraw(t *testing.T) {
	m := newTestMap(t, "Buttons")
	m.Resize(m.MinSize())

	img := m.raster.Generator(460, 450)
	assert.Equal(t, image.Rect(0, 0, 460, 450), img.Bounds())

	_, _, _, a := img.At(225, 300).RGBA()
	assert.Greater(t, a, uint32(0), "device body is painted")

	_, _, _, a = img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0), a, "outside the device is transparent")
}
