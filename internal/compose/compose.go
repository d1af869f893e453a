// Package compose reads YAML document manifests and replays them through an editor.
package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/scrivener/internal/element"
)

// Manifest is a declarative document description.
//
//	name: intro
//	elements:
//	  - text: "Hello, world!"
//	  - newline: true
//	  - tab: true
//	  - image: image.png
type Manifest struct {
	Name     string `yaml:"name"`
	Elements []Item `yaml:"elements"`
}

// Item is one manifest entry. Exactly one field must be set.
type Item struct {
	Text    *string `yaml:"text"`
	Image   *string `yaml:"image"`
	NewLine bool    `yaml:"newline"`
	Tab     bool    `yaml:"tab"`
}

// Kind reports which element the item describes.
func (it Item) Kind() (element.Kind, string, error) {
	var (
		kind  element.Kind
		value string
		n     int
	)
	if it.Text != nil {
		kind, value = element.KindText, *it.Text
		n++
	}
	if it.Image != nil {
		kind, value = element.KindImage, *it.Image
		n++
	}
	if it.NewLine {
		kind = element.KindNewLine
		n++
	}
	if it.Tab {
		kind = element.KindTab
		n++
	}
	if n != 1 {
		return "", "", fmt.Errorf("compose: item must set exactly one of text, image, newline, tab (got %d)", n)
	}
	return kind, value, nil
}

// Builder is the editor surface a manifest is applied to.
type Builder interface {
	AddText(s string)
	AddImage(path string)
	AddNewLine()
	AddTabSpace()
}

// Parse decodes and checks a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("compose: parse manifest: %w", err)
	}
	for i, it := range m.Elements {
		if _, _, err := it.Kind(); err != nil {
			return nil, fmt.Errorf("compose: element %d: %w", i, err)
		}
	}
	return &m, nil
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compose: read %s: %w", path, err)
	}
	return Parse(data)
}

// Apply adds every manifest element to b in order.
func (m *Manifest) Apply(b Builder) error {
	for i, it := range m.Elements {
		kind, value, err := it.Kind()
		if err != nil {
			return fmt.Errorf("compose: element %d: %w", i, err)
		}
		switch kind {
		case element.KindText:
			b.AddText(value)
		case element.KindImage:
			b.AddImage(value)
		case element.KindNewLine:
			b.AddNewLine()
		case element.KindTab:
			b.AddTabSpace()
		}
	}
	return nil
}
