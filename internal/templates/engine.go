// Package templates is the deterministic template engine: pure functions
// producing complete source bundles from a ComponentSpec, with no external
// calls. The engine is the fallback path whenever the model gateway cannot
// produce a usable bundle, and the reference output for tests.
package templates

import (
	"fmt"
	"time"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/spec"
)

// Generate produces a four-file bundle (component, stylesheet, story, test)
// under generated/<componentName>/. Output is a pure function of the spec;
// only the minted ID and timestamp differ between calls. Unknown component
// types fall back to the button family.
func Generate(s spec.ComponentSpec) *bundle.Bundle {
	name := s.ComponentName
	if name == "" {
		name = "Component"
	}
	base := "generated/" + name

	componentPath := fmt.Sprintf("%s/%s.jsx", base, name)
	stylesheetPath := fmt.Sprintf("%s/%s.css", base, name)
	storyPath := fmt.Sprintf("%s/%s.stories.jsx", base, name)
	testPath := fmt.Sprintf("%s/%s.test.jsx", base, name)

	files := make(map[string]string, 4)
	switch s.Type {
	case spec.TypeTextInput:
		files[componentPath] = textInputComponent(name)
		files[stylesheetPath] = textInputStylesheet(s)
		files[storyPath] = textInputStory(name)
		files[testPath] = textInputTest(name)
	default:
		files[componentPath] = buttonComponent(name)
		files[stylesheetPath] = buttonStylesheet(s)
		files[storyPath] = buttonStory(name)
		files[testPath] = buttonTest(name)
	}

	return &bundle.Bundle{
		ID:             bundle.NewID(),
		CreatedAt:      time.Now().UTC(),
		Summary:        fmt.Sprintf("Generated %s %q", s.Type, name),
		Files:          files,
		ComponentPath:  componentPath,
		StylesheetPath: stylesheetPath,
	}
}
