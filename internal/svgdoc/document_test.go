package svgdoc

import (
	"image"
	"image/color"
	"testing"

	"piper/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSVG = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     width="200px" height="100" viewBox="0 0 200 100">
  <defs><linearGradient id="grad"><stop offset="0" stop-color="#000"/></linearGradient></defs>
  <g id="Device" inkscape:label="Device">
    <rect id="body" x="40" y="10" width="120" height="80" fill="#808080"/>
  </g>
  <g id="Buttons" transform="translate(10,20)">
    <rect id="button0" x="90" y="20" width="20" height="10" fill="#ff0000"/>
    <rect id="button0-leader" x="90" y="5" width="1" height="1" style="fill:none;stroke:none;text-align:start"/>
  </g>
  <g id="hidden" style="display:none">
    <circle id="dot" cx="10" cy="10" r="5"/>
  </g>
</svg>`

func loadTestDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Load([]byte(testSVG))
	require.NoError(t, err)
	return doc
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not svg", `<html><body/></html>`, ErrNotSVG},
		{"no size", `<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`, ErrNoSize},
		{"zero viewBox", `<svg viewBox="0 0 0 0"/>`, ErrNoSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Load([]byte(`<svg width="10" height="10"><g></svg>`))
	assert.Error(t, err)
	_, err = Load(nil)
	assert.Error(t, err)

	_, err = Load([]byte(`<svg width="10" height="10"><g></rect></g></svg>`))
	assert.ErrorContains(t, err, "</rect> closes <g>")
	_, err = Load([]byte(`<svg width="10" height="10"><g><rect></g></rect></svg>`))
	assert.ErrorContains(t, err, "</g> closes <rect>")
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.svg")
	assert.Error(t, err)
}

func TestSize(t *testing.T) {
	doc := loadTestDoc(t)
	assert.Equal(t, geometry.NewSize(200, 100), doc.Size())

	doc, err := Load([]byte(`<svg viewBox="0 0 300 150"/>`))
	require.NoError(t, err)
	assert.Equal(t, geometry.NewSize(300, 150), doc.Size())

	doc, err = Load([]byte(`<svg width="1in" height="72pt"/>`))
	require.NoError(t, err)
	assert.InDelta(t, 96, doc.Size().Width, 1e-9)
	assert.InDelta(t, 96, doc.Size().Height, 1e-9)
}

func TestHasAndElement(t *testing.T) {
	doc := loadTestDoc(t)

	assert.True(t, doc.Has("button0"))
	assert.True(t, doc.Has("#button0"))
	assert.False(t, doc.Has("button1"))

	el, ok := doc.Element("button0-leader")
	require.True(t, ok)
	assert.Equal(t, "rect", el.Tag)
	assert.Contains(t, el.Style(), "text-align")

	el, ok = doc.Element("Device")
	require.True(t, ok)
	assert.Equal(t, "Device", el.Attrs["inkscape:label"])

	_, ok = doc.Element("nope")
	assert.False(t, ok)
}

func TestIDsAndLayers(t *testing.T) {
	doc := loadTestDoc(t)
	assert.Equal(t, []string{"grad", "Device", "body", "Buttons", "button0", "button0-leader", "hidden", "dot"}, doc.IDs())
	assert.Equal(t, []string{"Device", "Buttons", "hidden"}, doc.Layers())
}

func TestBounds(t *testing.T) {
	doc := loadTestDoc(t)

	tests := []struct {
		name string
		id   string
		want geometry.Rect
	}{
		{"plain rect", "body", geometry.NewRect(40, 10, 120, 80)},
		{"group transform applied", "button0", geometry.NewRect(100, 40, 20, 10)},
		{"unpainted leader", "button0-leader", geometry.NewRect(100, 25, 1, 1)},
		{"hidden group", "dot", geometry.NewRect(5, 5, 10, 10)},
		{"group", "Buttons", geometry.NewRect(100, 25, 20, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doc.Bounds(tt.id)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, got.X, 0.05)
			assert.InDelta(t, tt.want.Y, got.Y, 0.05)
			assert.InDelta(t, tt.want.Width, got.Width, 0.1)
			assert.InDelta(t, tt.want.Height, got.Height, 0.1)
		})
	}

	_, ok := doc.Bounds("ghost")
	assert.False(t, ok)
	_, ok = doc.Bounds("grad")
	assert.False(t, ok, "gradients have no geometry")

	// Cached lookups return the same answer.
	a, _ := doc.Bounds("body")
	b, _ := doc.Bounds("#body")
	assert.Equal(t, a, b)
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestRenderElement(t *testing.T) {
	doc := loadTestDoc(t)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))

	require.NoError(t, doc.Render(dst, "button0", geometry.Point2D{}, 1))

	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(110, 45))
	assert.Zero(t, alphaAt(dst, 50, 20), "body is not part of button0")
	assert.Zero(t, alphaAt(dst, 5, 5))
}

func TestRenderScaledAndOffset(t *testing.T) {
	doc := loadTestDoc(t)
	dst := image.NewRGBA(image.Rect(0, 0, 500, 250))

	require.NoError(t, doc.Render(dst, "#button0", geometry.NewPoint2D(50, 20), 2))

	// button0 spans x 100..120, y 40..50 in document space.
	assert.Equal(t, uint8(255), alphaAt(dst, 50+220, 20+90))
	assert.Zero(t, alphaAt(dst, 50+110, 20+45))
}

func TestRenderWholeDocument(t *testing.T) {
	doc := loadTestDoc(t)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))

	require.NoError(t, doc.Render(dst, "", geometry.Point2D{}, 1))

	assert.Equal(t, uint8(255), alphaAt(dst, 50, 20), "body")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(110, 45), "button0 on top")
}

func TestRenderMissingElement(t *testing.T) {
	doc := loadTestDoc(t)
	err := doc.Render(image.NewRGBA(image.Rect(0, 0, 10, 10)), "ghost", geometry.Point2D{}, 1)
	assert.ErrorIs(t, err, ErrNoElement)
}

func TestRenderIntoSubImage(t *testing.T) {
	doc := loadTestDoc(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 300, 200))
	dst := canvas.SubImage(image.Rect(50, 50, 300, 200)).(*image.RGBA)

	require.NoError(t, doc.Render(dst, "button0", geometry.Point2D{}, 1))

	// origin is measured from the bounds minimum
	assert.Equal(t, color.RGBA{R: 255, A: 255}, canvas.RGBAAt(50+110, 50+45))
	assert.Zero(t, alphaAt(canvas, 110, 45))
}
