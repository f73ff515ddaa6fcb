package svgdoc

import (
	"fmt"
	"strings"
)

// Level is the severity of an Issue.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Issue is one finding of Check.
type Issue struct {
	Level   Level
	Message string
}

// Bounds accepted for an illustration's intrinsic size.
const (
	MinDocumentSize = 400
	MaxDocumentSize = 500
)

// maxElementIndex bounds the buttonN/ledN scan.
const maxElementIndex = 20

// RequiredLayers are the groups every device illustration must provide.
var RequiredLayers = []string{"Device", "Buttons", "LEDs"}

// Check validates that doc follows the conventions the configuration pages
// rely on: size, layers, and leader/path elements for buttons and LEDs.
func Check(doc *Document) []Issue {
	var issues []Issue
	issues = append(issues, checkSize(doc)...)
	issues = append(issues, checkLayers(doc)...)
	issues = append(issues, checkElements(doc, "button")...)
	issues = append(issues, checkElements(doc, "led")...)
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Level == LevelError {
			return true
		}
	}
	return false
}

func checkSize(doc *Document) []Issue {
	var issues []Issue
	size := doc.Size()
	if size.Width < MinDocumentSize || size.Width > MaxDocumentSize {
		issues = append(issues, Issue{LevelError, fmt.Sprintf("width is outside of range: %g", size.Width)})
	}
	if size.Height < MinDocumentSize || size.Height > MaxDocumentSize {
		issues = append(issues, Issue{LevelError, fmt.Sprintf("height is outside of range: %g", size.Height)})
	}
	return issues
}

func checkLayers(doc *Document) []Issue {
	layers := make(map[string]bool)
	for _, id := range doc.Layers() {
		layers[id] = true
	}
	var issues []Issue
	for _, want := range RequiredLayers {
		if !layers[want] {
			issues = append(issues, Issue{LevelError, "missing layer: " + want})
		}
	}
	return issues
}

func checkElements(doc *Document, prefix string) []Issue {
	var issues []Issue
	highest := -1
	for idx := 0; idx < maxElementIndex; idx++ {
		e := fmt.Sprintf("%s%d", prefix, idx)
		leader := e + "-leader"
		path := e + "-path"

		switch {
		case doc.Has(e):
			highest = idx
			if idx > 0 && !doc.Has(fmt.Sprintf("%s%d", prefix, idx-1)) {
				issues = append(issues, Issue{LevelWarning, "non-consecutive " + prefix + ": " + e})
			}
			if el, ok := doc.Element(leader); !ok {
				issues = append(issues, Issue{LevelError, "missing " + leader + " for " + e})
			} else if el.Tag != "rect" || !strings.Contains(el.Style(), "text-align") {
				issues = append(issues, Issue{LevelError, "missing style property for " + leader})
			}
			if !doc.Has(path) {
				issues = append(issues, Issue{LevelError, "missing " + path + " for " + e})
			}
		case doc.Has(leader):
			issues = append(issues, Issue{LevelError, "have " + leader + " but not " + e})
		case doc.Has(path):
			issues = append(issues, Issue{LevelError, "have " + path + " but not " + e})
		}
	}
	issues = append(issues, Issue{LevelInfo, fmt.Sprintf("found %d %ss", highest+1, prefix)})
	return issues
}
