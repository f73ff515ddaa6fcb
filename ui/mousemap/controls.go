package mousemap

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Control is a fyne object that reports pointer crossings.
type Control interface {
	fyne.CanvasObject

	// Observe registers enter and leave callbacks and returns a function
	// removing them.
	Observe(enter, leave func()) (cancel func())
}

type hoverObserver struct {
	id           int
	enter, leave func()
}

// hoverObservers is a registration list safe for use from the event and
// draw goroutines.
type hoverObservers struct {
	mu        sync.Mutex
	nextID    int
	observers []hoverObserver
}

func (h *hoverObservers) add(enter, leave func()) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.observers = append(h.observers, hoverObserver{id: id, enter: enter, leave: leave})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, o := range h.observers {
			if o.id == id {
				h.observers = append(h.observers[:i], h.observers[i+1:]...)
				return
			}
		}
	}
}

func (h *hoverObservers) snapshot() []hoverObserver {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hoverObserver(nil), h.observers...)
}

func (h *hoverObservers) notifyEnter() {
	for _, o := range h.snapshot() {
		if o.enter != nil {
			o.enter()
		}
	}
}

func (h *hoverObservers) notifyLeave() {
	for _, o := range h.snapshot() {
		if o.leave != nil {
			o.leave()
		}
	}
}

// HoverButton is a widget.Button that reports pointer crossings.
type HoverButton struct {
	widget.Button
	hover hoverObservers
}

var (
	_ Control           = (*HoverButton)(nil)
	_ desktop.Hoverable = (*HoverButton)(nil)
)

// NewHoverButton creates a button with the given label and tap handler.
func NewHoverButton(label string, tapped func()) *HoverButton {
	b := &HoverButton{}
	b.Text = label
	b.OnTapped = tapped
	b.ExtendBaseWidget(b)
	return b
}

// MouseIn implements desktop.Hoverable.
func (b *HoverButton) MouseIn(e *desktop.MouseEvent) {
	b.Button.MouseIn(e)
	b.hover.notifyEnter()
}

// MouseOut implements desktop.Hoverable.
func (b *HoverButton) MouseOut() {
	b.Button.MouseOut()
	b.hover.notifyLeave()
}

// Observe implements Control.
func (b *HoverButton) Observe(enter, leave func()) func() {
	return b.hover.add(enter, leave)
}

// HoverBox wraps an object that has no hover handling of its own, such as a
// label, and reports pointer crossings over it.
type HoverBox struct {
	widget.BaseWidget
	Content fyne.CanvasObject
	hover   hoverObservers
}

var (
	_ Control           = (*HoverBox)(nil)
	_ desktop.Hoverable = (*HoverBox)(nil)
)

// NewHoverBox wraps content.
func NewHoverBox(content fyne.CanvasObject) *HoverBox {
	h := &HoverBox{Content: content}
	h.ExtendBaseWidget(h)
	return h
}

// CreateRenderer implements fyne.Widget.
func (h *HoverBox) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.Content)
}

// MouseIn implements desktop.Hoverable.
func (h *HoverBox) MouseIn(*desktop.MouseEvent) {
	h.hover.notifyEnter()
}

// MouseMoved implements desktop.Hoverable.
func (h *HoverBox) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (h *HoverBox) MouseOut() {
	h.hover.notifyLeave()
}

// Observe implements Control.
func (h *HoverBox) Observe(enter, leave func()) func() {
	return h.hover.add(enter, leave)
}
