package preview

import (
	"strings"
	"testing"

	"github.com/modforge/modforge/internal/timeline"
)

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender_SelfContainedDocument(t *testing.T) {
	doc, err := Options{
		ComponentName:   "MfButton",
		ComponentSource: `export default function MfButton(){ return <button>hi</button>; }`,
		Stylesheet:      ".mfRoot{color:red;}",
		DemoProps:       map[string]any{"label": "Continue", "variant": "primary"},
	}.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, part := range []string{
		"<!doctype html>",
		".mfRoot{color:red;}",
		"babel",
		"Babel.transform",
		`"label":"Continue"`,
		"Preview Error",
		"ReactDOM.render",
	} {
		if !strings.Contains(doc, part) {
			t.Errorf("document missing %q", part)
		}
	}

	// The component source travels as a JSON string literal.
	if !strings.Contains(doc, `return <button>hi</button>;`) &&
		!strings.Contains(doc, `return <button>hi</button>;`) {
		t.Error("component source not embedded")
	}
}

func TestRender_EscapesComponentNameInMarkup(t *testing.T) {
	doc, err := Options{
		ComponentName:   `X<script>alert(1)</script>`,
		ComponentSource: "x",
	}.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(doc, "<script>alert(1)</script></div>") {
		t.Error("component name not escaped in markup")
	}
}

func TestRender_RequiresComponentName(t *testing.T) {
	if _, err := (Options{}).Render(); err == nil {
		t.Error("expected error for missing component name")
	}
}

// ---------------------------------------------------------------------------
// Key
// ---------------------------------------------------------------------------

func TestKey_StableAndContentSensitive(t *testing.T) {
	a := Key("bundle-1", "jsx", "css")
	b := Key("bundle-1", "jsx", "css")
	if a != b {
		t.Errorf("key not stable: %q vs %q", a, b)
	}

	if Key("bundle-2", "jsx", "css") == a {
		t.Error("key should change with bundle id")
	}
	if Key("bundle-1", "jsx2", "css") == a {
		t.Error("key should change with component source")
	}
	if Key("bundle-1", "jsx", "css2") == a {
		t.Error("key should change with stylesheet")
	}
	if !strings.HasPrefix(a, "bundle-1:") {
		t.Errorf("key = %q; want bundle id prefix", a)
	}
}

func TestKey_SeparatorPreventsCollision(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not hash identically.
	if Key("x", "ab", "c") == Key("x", "a", "bc") {
		t.Error("jsx/css boundary is ambiguous in the key")
	}
}

// ---------------------------------------------------------------------------
// DemoProps
// ---------------------------------------------------------------------------

func TestDemoProps_ButtonGatedByCaps(t *testing.T) {
	controls := timeline.Controls{Label: "Continue", Variant: "primary", Size: "lg", Loading: true, Disabled: true}

	props := DemoProps("button", timeline.Caps{}, controls)
	if props["label"] != "Continue" || props["variant"] != "primary" {
		t.Errorf("base props = %v", props)
	}
	for _, locked := range []string{"size", "loading", "disabled"} {
		if _, ok := props[locked]; ok {
			t.Errorf("prop %s leaked before its cap unlocked", locked)
		}
	}

	props = DemoProps("button", timeline.Caps{Loading: true, Disabled: true}, controls)
	if props["loading"] != true || props["disabled"] != true {
		t.Errorf("v1 props = %v", props)
	}
	if _, ok := props["size"]; ok {
		t.Error("size prop leaked at v1")
	}

	props = DemoProps("button", timeline.Caps{Loading: true, Disabled: true, Size: true}, controls)
	if props["size"] != "lg" {
		t.Errorf("v2 props = %v", props)
	}
}

func TestDemoProps_TextInput(t *testing.T) {
	props := DemoProps("textInput", timeline.Caps{}, timeline.Controls{})
	if props["label"] != "Email" {
		t.Errorf("text input props = %v", props)
	}
	if _, ok := props["variant"]; ok {
		t.Error("text input demo should not carry button props")
	}
}
