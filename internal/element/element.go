// Package element defines the closed set of renderable document elements.
package element

import "fmt"

// Element is an atomic unit of document content.
// The set of implementations is closed to this package.
type Element interface {
	// Render returns the element's textual contribution. It never fails.
	Render() string
	sealed()
}

// Text is a run of literal text, rendered verbatim.
type Text struct {
	Content string
}

// Image is a reference to an image. The path is not validated.
type Image struct {
	Path string
}

// LineBreak renders a single newline.
type LineBreak struct{}

// TabStop renders a single tab.
type TabStop struct{}

func (t Text) Render() string { return t.Content }

func (i Image) Render() string { return "[Image: " + i.Path + "]" }

func (LineBreak) Render() string { return "\n" }

func (TabStop) Render() string { return "\t" }

func (Text) sealed()      {}
func (Image) sealed()     {}
func (LineBreak) sealed() {}
func (TabStop) sealed()   {}

// Kind names an element variant on external surfaces (HTTP, MCP, manifests).
type Kind string

// Element kinds.
const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindNewLine Kind = "newline"
	KindTab     Kind = "tab"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindText, KindImage, KindNewLine, KindTab}

// ParseKind converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("element: unknown kind %q", s)
}

// KindOf reports the kind of e.
func KindOf(e Element) Kind {
	switch e.(type) {
	case Text:
		return KindText
	case Image:
		return KindImage
	case LineBreak:
		return KindNewLine
	case TabStop:
		return KindTab
	}
	panic(fmt.Sprintf("element: unhandled variant %T", e))
}

// New builds the element of the given kind. value is the text content or
// image path and is ignored for newline and tab.
func New(kind Kind, value string) (Element, error) {
	switch kind {
	case KindText:
		return Text{Content: value}, nil
	case KindImage:
		return Image{Path: value}, nil
	case KindNewLine:
		return LineBreak{}, nil
	case KindTab:
		return TabStop{}, nil
	}
	return nil, fmt.Errorf("element: unknown kind %q", kind)
}
