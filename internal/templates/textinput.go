package templates

import (
	"fmt"
	"strings"

	"github.com/modforge/modforge/internal/spec"
)

func textInputStylesheet(s spec.ComponentSpec) string {
	radius := s.Token("borderRadius", 12)
	px := s.Token("paddingX", 12)
	py := s.Token("paddingY", 10)
	fs := s.Token("fontSize", 14)

	border := s.Color("border", "#D1D5DB")
	focus := s.Color("focus", "#2563EB")
	bg := s.Color("bg", "#FFFFFF")
	fg := s.Color("fg", "#111827")
	hint := s.Color("hint", "#6B7280")

	return fmt.Sprintf(`:root{--mf-radius:%gpx;--mf-px:%gpx;--mf-py:%gpx;--mf-fs:%gpx;--mf-border:%s;--mf-focus:%s;--mf-bg:%s;--mf-fg:%s;--mf-hint:%s;}
.mfField{display:flex;flex-direction:column;gap:6px;max-width:360px;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Arial;}
.mfLabel{font-size:12px;color:var(--mf-hint);font-weight:600;}
.mfInput{border:1px solid var(--mf-border);border-radius:var(--mf-radius);padding:var(--mf-py) var(--mf-px);font-size:var(--mf-fs);background:var(--mf-bg);color:var(--mf-fg);outline:none;transition:box-shadow .15s ease,border-color .15s ease;}
.mfInput:focus{border-color:var(--mf-focus);box-shadow:0 0 0 3px rgba(37,99,235,.25);}
.mfHelp{font-size:12px;color:var(--mf-hint);}
.mfError{font-size:12px;color:#B91C1C;font-weight:600;}
.mfInputError{border-color:#B91C1C;box-shadow:0 0 0 3px rgba(185,28,28,.18);}`,
		radius, px, py, fs, border, focus, bg, fg, hint)
}

// textInputComponent emits the text-input source. Error text takes styling
// precedence over help text: when both are set only the error renders.
func textInputComponent(name string) string {
	tid := strings.ToLower(name)
	return fmt.Sprintf(`export function %[1]s({
  label = "Email",
  value,
  defaultValue,
  placeholder = "name@company.com",
  onChange,
  helpText,
  errorText,
  disabled = false,
  testId = "%[2]s",
  ariaLabel
}){
  const isError = Boolean(errorText);
  return (
    <div className="mfField" data-testid={testId}>
      {label ? <div className="mfLabel">{label}</div> : null}
      <input
        className={isError ? "mfInput mfInputError" : "mfInput"}
        value={value}
        defaultValue={defaultValue}
        placeholder={placeholder}
        disabled={disabled}
        aria-label={ariaLabel || label || "input"}
        onChange={(e) => onChange?.(e.target.value, e)}
      />
      {isError ? <div className="mfError">{errorText}</div> : null}
      {!isError && helpText ? <div className="mfHelp">{helpText}</div> : null}
    </div>
  );
}
export default %[1]s;`, name, tid)
}

func textInputStory(name string) string {
	return fmt.Sprintf(`import React, { useState } from "react";
import %[1]s from "./%[1]s";
export default { title: "SmartCatalogue/%[1]s", component: %[1]s };
export const Playground = (args) => {
  const [v, setV] = useState(args.defaultValue || "");
  return <%[1]s {...args} value={v} onChange={(nv) => setV(nv)} />;
};
Playground.args = { label:"Email", placeholder:"name@company.com", helpText:"We will never share your email.", errorText:"" };`, name)
}

func textInputTest(name string) string {
	return fmt.Sprintf(`import React from "react";
import { render, screen } from "@testing-library/react";
import %[1]s from "./%[1]s";
describe("%[1]s", () => {
  it("renders label", () => {
    render(<%[1]s label="Email" />);
    expect(screen.getByText("Email")).toBeInTheDocument();
  });
});`, name)
}
