package mousemap

import (
	"testing"

	"piper/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invalidations struct {
	rects []geometry.Rect
}

func (iv *invalidations) record(r geometry.Rect) {
	iv.rects = append(iv.rects, r)
}

func TestHoverSequence(t *testing.T) {
	iv := &invalidations{}
	e := newTestEngine(t, twoButtonDoc(), WithInvalidator(iv.record))
	a, b := newFakeControl(30, 20), newFakeControl(40, 20)
	require.True(t, e.Attach(a, "button0"))
	require.True(t, e.Attach(b, "button1"))
	e.MeasureWidth()

	type state struct {
		anchor Anchor
		on     bool
	}
	var seen []state
	step := func(fn func()) {
		before := len(iv.rects)
		fn()
		anchor, on := e.Highlighted()
		seen = append(seen, state{anchor, on})
		assert.Len(t, iv.rects, before+1, "one invalidation per transition")
	}

	step(a.enter)
	step(a.leave)
	step(b.enter)
	step(b.leave)

	assert.Equal(t, []state{
		{"button0", true},
		{"", false},
		{"button1", true},
		{"", false},
	}, seen)
}

func TestHoverInvalidatesPaddedRegion(t *testing.T) {
	iv := &invalidations{}
	e := newTestEngine(t, twoButtonDoc(), WithInvalidator(iv.record), WithBorderWidth(2), WithSpacing(10))
	a := newFakeControl(30, 20)
	require.True(t, e.Attach(a, "button0"))
	e.MeasureWidth()

	a.enter()
	a.leave()

	// button0 is 20x10 at (50, 100); the illustration starts at border+left column.
	want := geometry.NewRect(2+40+50-10, 2+100-10, 20+20, 10+20)
	require.Len(t, iv.rects, 2)
	assert.Equal(t, want, iv.rects[0])
	assert.Equal(t, want, iv.rects[1], "leave redraws the region that was highlighted")
}

func TestHoverFallsBackToFullRedraw(t *testing.T) {
	doc := twoButtonDoc()
	doc.hasOnly["button5"] = true
	doc.boxes["button5-leader"] = geometry.NewRect(10, 10, 1, 1)

	iv := &invalidations{}
	e := newTestEngine(t, doc, WithInvalidator(iv.record), WithBorderWidth(1))
	c := newFakeControl(30, 20)
	require.True(t, e.Attach(c, "button5"))
	e.MeasureWidth()

	c.enter()
	require.Len(t, iv.rects, 1)
	assert.Equal(t, geometry.NewRect(1+40, 1, 200, 300), iv.rects[0])
}

func TestLeaveWhileIdleIsNoop(t *testing.T) {
	iv := &invalidations{}
	e := newTestEngine(t, twoButtonDoc(), WithInvalidator(iv.record))
	a := newFakeControl(30, 20)
	require.True(t, e.Attach(a, "button0"))

	a.leave()
	assert.Empty(t, iv.rects)
	_, on := e.Highlighted()
	assert.False(t, on)
}

func TestEnterWithoutLeavePassesThroughIdle(t *testing.T) {
	iv := &invalidations{}
	e := newTestEngine(t, twoButtonDoc(), WithInvalidator(iv.record))
	a, b := newFakeControl(30, 20), newFakeControl(30, 20)
	require.True(t, e.Attach(a, "button0"))
	require.True(t, e.Attach(b, "button1"))

	a.enter()
	b.enter()

	anchor, on := e.Highlighted()
	assert.True(t, on)
	assert.Equal(t, Anchor("button1"), anchor)
	assert.Len(t, iv.rects, 3, "enter, implicit leave, enter")
}

func TestDetachHoveredControlClearsHighlight(t *testing.T) {
	iv := &invalidations{}
	e := newTestEngine(t, twoButtonDoc(), WithInvalidator(iv.record))
	a := newFakeControl(30, 20)
	require.True(t, e.Attach(a, "button0"))

	a.enter()
	e.Detach(a)

	_, on := e.Highlighted()
	assert.False(t, on)
	assert.Len(t, iv.rects, 2)
}

func TestHoverWithoutInvalidator(t *testing.T) {
	e := newTestEngine(t, twoButtonDoc())
	a := newFakeControl(30, 20)
	require.True(t, e.Attach(a, "button0"))

	assert.NotPanics(t, func() {
		a.enter()
		a.leave()
	})
}
