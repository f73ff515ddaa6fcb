package mousemap

import "fmt"

// LeaderSuffix is appended to an anchor id to name its leader element.
const LeaderSuffix = "-leader"

// Anchor names a region of the illustration a control is bound to. The
// anchor id is also the id of the content region used for highlighting; the
// leader element marks where the control attaches.
type Anchor string

// ButtonAnchor returns the anchor of the button with the given index.
func ButtonAnchor(index int) Anchor {
	return Anchor(fmt.Sprintf("button%d", index))
}

// LEDAnchor returns the anchor of the LED with the given index.
func LEDAnchor(index int) Anchor {
	return Anchor(fmt.Sprintf("led%d", index))
}

// ID returns the anchor identifier.
func (a Anchor) ID() string { return string(a) }

// Leader returns the id of the element marking the attachment point.
func (a Anchor) Leader() string { return string(a) + LeaderSuffix }

// Content returns the id of the drawable region highlighted on hover.
func (a Anchor) Content() string { return string(a) }

// attachment is one control bound into the layout.
type attachment struct {
	control Control
	anchor  Anchor
	left    bool
	cancel  func()
}

// registry keeps attachments in attach order.
type registry struct {
	items []*attachment
}

func (r *registry) add(a *attachment) {
	r.items = append(r.items, a)
}

func (r *registry) indexOf(c Control) int {
	for i, a := range r.items {
		if a.control == c {
			return i
		}
	}
	return -1
}

func (r *registry) hasAnchor(anchor Anchor) bool {
	for _, a := range r.items {
		if a.anchor == anchor {
			return true
		}
	}
	return false
}

func (r *registry) remove(i int) *attachment {
	a := r.items[i]
	r.items = append(r.items[:i], r.items[i+1:]...)
	return a
}
