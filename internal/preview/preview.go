// Package preview renders a self-contained HTML document that mounts a
// generated component inside an isolated scripting context. The document
// loads React and a standalone transpiler from a CDN, transpiles the
// component source, resolves the export matching the component name and
// mounts it with the demo props. Any failure along the way renders a
// visible error panel instead of a blank frame.
package preview

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"html"
	"strings"

	"github.com/modforge/modforge/internal/spec"
	"github.com/modforge/modforge/internal/timeline"
)

// Options carries everything the document needs to mount one component.
type Options struct {
	ComponentName   string
	ComponentSource string
	Stylesheet      string
	DemoProps       map[string]any
}

// Render produces the preview document text.
func (o Options) Render() (string, error) {
	if o.ComponentName == "" {
		return "", fmt.Errorf("preview: component name is required")
	}
	props, err := json.Marshal(o.propsOrEmpty())
	if err != nil {
		return "", fmt.Errorf("preview: encoding demo props: %w", err)
	}
	source, err := json.Marshal(o.ComponentSource)
	if err != nil {
		return "", fmt.Errorf("preview: encoding source: %w", err)
	}
	nameJS, err := json.Marshal(o.ComponentName)
	if err != nil {
		return "", fmt.Errorf("preview: encoding name: %w", err)
	}

	doc := documentTemplate
	doc = strings.ReplaceAll(doc, "__NAME_HTML__", html.EscapeString(o.ComponentName))
	doc = strings.ReplaceAll(doc, "__STYLESHEET__", o.Stylesheet)
	doc = strings.ReplaceAll(doc, "__PROPS__", string(props))
	doc = strings.ReplaceAll(doc, "__SOURCE__", string(source))
	doc = strings.ReplaceAll(doc, "__NAME_JS__", string(nameJS))
	return doc, nil
}

func (o Options) propsOrEmpty() map[string]any {
	if o.DemoProps == nil {
		return map[string]any{}
	}
	return o.DemoProps
}

// Key derives the identity of a rendered preview from the bundle and the
// exact component/stylesheet pair in use. The host re-renders from scratch
// when the key changes and must not re-render otherwise.
func Key(bundleID, componentSource, stylesheet string) string {
	h := fnv.New64a()
	h.Write([]byte(componentSource))
	h.Write([]byte("||"))
	h.Write([]byte(stylesheet))
	return fmt.Sprintf("%s:%x", bundleID, h.Sum64())
}

// DemoProps builds the prop set for a preview, passing only the props the
// session's feature caps have unlocked. Earlier versions never receive
// props their generation did not know about.
func DemoProps(specType string, caps timeline.Caps, c timeline.Controls) map[string]any {
	if specType == spec.TypeTextInput {
		return map[string]any{
			"label":       "Email",
			"placeholder": "name@example.com",
			"helpText":    "We will never share your email.",
		}
	}
	props := map[string]any{
		"label":   c.Label,
		"variant": c.Variant,
	}
	if caps.Size {
		props["size"] = c.Size
	}
	if caps.Loading {
		props["loading"] = c.Loading
	}
	if caps.Disabled {
		props["disabled"] = c.Disabled
	}
	return props
}

const documentTemplate = `<!doctype html>
<html>
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Preview</title>
    <style>
      body{margin:0;background:#0b1020;color:#e6eefc;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Arial}
      .wrap{padding:22px}
      .card{border:1px solid rgba(148,163,184,.18);background:rgba(15,23,42,.55);border-radius:16px;padding:16px}
      .row{display:flex;gap:12px;align-items:center;flex-wrap:wrap}
      .hint{color:#93a4c7;font-size:12px;margin-top:10px;line-height:1.4}
      .chip{border:1px solid rgba(148,163,184,.18);border-radius:999px;padding:8px 10px;font-size:12px;color:#93a4c7}
      __STYLESHEET__
    </style>
  </head>
  <body>
    <div class="wrap">
      <div class="row" style="justify-content:space-between;margin-bottom:12px">
        <div class="chip">Live component preview</div>
        <div class="chip">__NAME_HTML__</div>
      </div>

      <div class="card">
        <div id="root"></div>
        <div class="hint">Spec to code to preview</div>
      </div>
    </div>

    <script crossorigin src="https://unpkg.com/react@18/umd/react.development.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.development.js"></script>
    <script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>

    <script>
      const componentName = __NAME_JS__;
      const props = __PROPS__;
      props.onClick = () => alert("Clicked!");
      const source = __SOURCE__;

      function run(){
        const transformed = Babel.transform(source, {
          presets: ["react"],
          plugins: ["transform-modules-commonjs"]
        }).code;

        const moduleObj = { exports: {} };
        const fn = new Function("React", "module", "exports", transformed + "; return module.exports;");
        const mod = fn(React, moduleObj, moduleObj.exports) || moduleObj.exports;

        const Component = mod.default || mod[componentName];
        if (!Component) throw new Error("Component not found in generated code.");

        ReactDOM.render(
          React.createElement(Component, props),
          document.getElementById("root")
        );
      }

      try { run(); }
      catch (e){
        document.getElementById("root").innerHTML =
          '<div style="color:#fb7185;font-weight:800">Preview Error</div><pre style="white-space:pre-wrap;color:#93a4c7">' +
          String(e && (e.stack || e.message || e)) + '</pre>';
      }
    </script>
  </body>
</html>`
