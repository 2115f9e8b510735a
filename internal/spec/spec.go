// Package spec defines the ComponentSpec input contract for ModForge.
package spec

import "fmt"

// Component kinds ModForge knows how to generate. Any other value is
// treated as TypeButton by the template engine.
const (
	TypeButton    = "button"
	TypeTextInput = "textInput"
)

// ComponentSpec describes the UI component to generate: its name, kind,
// style tokens, and semantic colors. Specs are treated as immutable once
// submitted to a generation call.
type ComponentSpec struct {
	ComponentName string             `json:"componentName"`
	Type          string             `json:"type"`
	Description   string             `json:"description,omitempty"`
	Variants      []string           `json:"variants,omitempty"`
	Tokens        map[string]float64 `json:"tokens,omitempty"`
	Colors        map[string]string  `json:"colors,omitempty"`
}

// Validate checks that the required fields are present. A spec without a
// component name or type cannot drive generation.
func (s *ComponentSpec) Validate() error {
	if s.ComponentName == "" || s.Type == "" {
		return fmt.Errorf("spec must include componentName and type")
	}
	return nil
}

// Token returns the named style token, or fallback if it is absent.
func (s *ComponentSpec) Token(name string, fallback float64) float64 {
	if v, ok := s.Tokens[name]; ok {
		return v
	}
	return fallback
}

// Color returns the named color role, or fallback if it is absent.
func (s *ComponentSpec) Color(name, fallback string) string {
	if v, ok := s.Colors[name]; ok {
		return v
	}
	return fallback
}

// SampleButton is the demo button spec shipped with the workbench.
func SampleButton() ComponentSpec {
	return ComponentSpec{
		ComponentName: "MfButton",
		Type:          TypeButton,
		Description:   "Primary CTA button with variants, sizes and loading state",
		Variants:      []string{"primary", "secondary"},
		Tokens: map[string]float64{
			"fontSize":     14,
			"fontWeight":   700,
			"borderRadius": 8,
			"paddingX":     16,
			"paddingY":     10,
		},
		Colors: map[string]string{
			"primaryBg":     "#00965e",
			"primaryText":   "#FFFFFF",
			"secondaryBg":   "#111827",
			"secondaryText": "#FFFFFF",
		},
	}
}

// SampleTextInput is the demo text-input spec shipped with the workbench.
func SampleTextInput() ComponentSpec {
	return ComponentSpec{
		ComponentName: "MfTextInput",
		Type:          TypeTextInput,
		Description:   "Text input with label, help text and error message",
		Tokens: map[string]float64{
			"fontSize":     14,
			"borderRadius": 8,
			"paddingX":     12,
			"paddingY":     10,
		},
		Colors: map[string]string{
			"border": "#D1D5DB",
			"focus":  "#00965e",
			"bg":     "#FFFFFF",
			"fg":     "#111827",
			"hint":   "#6B7280",
		},
	}
}
