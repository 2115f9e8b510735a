package templates

import (
	"fmt"
	"strings"

	"github.com/modforge/modforge/internal/spec"
)

// buttonStylesheet derives every visual constant from the spec's tokens and
// colors, with documented defaults when a token is absent. The three size
// variant rules ship from v0 so a later size-prop patch has matching CSS.
func buttonStylesheet(s spec.ComponentSpec) string {
	radius := s.Token("borderRadius", 12)
	px := s.Token("paddingX", 16)
	py := s.Token("paddingY", 10)
	fs := s.Token("fontSize", 14)
	fw := s.Token("fontWeight", 700)

	primaryBg := s.Color("primaryBg", "#00965e")
	primaryText := s.Color("primaryText", "#FFFFFF")
	secondaryBg := s.Color("secondaryBg", "#111827")
	secondaryText := s.Color("secondaryText", "#FFFFFF")

	return fmt.Sprintf(`:root{--mf-radius:%gpx;--mf-px:%gpx;--mf-py:%gpx;--mf-fs:%gpx;--mf-fw:%g;--mf-primary-bg:%s;--mf-primary-fg:%s;--mf-secondary-bg:%s;--mf-secondary-fg:%s;}
.mfRoot{display:inline-flex;align-items:center;justify-content:center;gap:8px;border-radius:var(--mf-radius);padding:var(--mf-py) var(--mf-px);font-size:var(--mf-fs);font-weight:var(--mf-fw);border:1px solid transparent;cursor:pointer;user-select:none;transition:transform .05s ease, filter .15s ease, opacity .15s ease, box-shadow .15s ease;}
.mfRoot:active{transform:translateY(1px);}
.mfRoot:focus-visible{outline:none;box-shadow:0 0 0 3px rgba(37,99,235,.35);}
.mfPrimary{background:var(--mf-primary-bg);color:var(--mf-primary-fg);}
.mfSecondary{background:var(--mf-secondary-bg);color:var(--mf-secondary-fg);}
.mfDisabled{opacity:.55;cursor:not-allowed;}
.mfLoading{opacity:.85;cursor:progress;}
.mfSpinner{width:14px;height:14px;border-radius:999px;border:2px solid rgba(255,255,255,.35);border-top-color:rgba(255,255,255,.95);animation:spin .8s linear infinite;}
@keyframes spin{to{transform:rotate(360deg);}}
/* Size variants (v2) */
.mfSm{padding:8px 12px;font-size:13px;border-radius:10px;}
.mfMd{padding:10px 16px;font-size:14px;border-radius:12px;}
.mfLg{padding:12px 18px;font-size:15px;border-radius:14px;}`,
		radius, px, py, fs, fw, primaryBg, primaryText, secondaryBg, secondaryText)
}

// buttonComponent emits the button source. Effective disabled state is
// disabled OR loading, and the click handler is dropped entirely (not just
// visually) when effectively disabled.
func buttonComponent(name string) string {
	tid := strings.ToLower(name)
	return fmt.Sprintf(`function cx(...parts){return parts.filter(Boolean).join(" ");}

export function %[1]s({
  label = "Continue",
  variant = "primary",
  size = "md",
  loading = false,
  disabled = false,
  onClick,
  testId = "%[2]s",
  ariaLabel
}){
  const isDisabled = disabled || loading;
  const cls = cx(
    "mfRoot",
    size === "sm" ? "mfSm" : size === "lg" ? "mfLg" : "mfMd",
    variant === "secondary" ? "mfSecondary" : "mfPrimary",
    isDisabled ? "mfDisabled" : "",
    loading ? "mfLoading" : ""
  );

  return (
    <button
      type="button"
      className={cls}
      onClick={isDisabled ? undefined : onClick}
      disabled={isDisabled}
      data-testid={testId}
      aria-label={ariaLabel || label}
    >
      {loading ? <span className="mfSpinner" aria-hidden="true" /> : null}
      <span>{label}</span>
    </button>
  );
}

export default %[1]s;`, name, tid)
}

func buttonStory(name string) string {
	return fmt.Sprintf(`import React from "react";
import %[1]s from "./%[1]s";

export default {
  title: "SmartCatalogue/%[1]s",
  component: %[1]s,
  argTypes: {
    variant: { control: { type: "select" }, options: ["primary","secondary"] },
    size: { control: { type: "select" }, options: ["sm","md","lg"] }
  }
};

export const Playground = (args) => <%[1]s {...args} />;
Playground.args = { label:"Continue", variant:"primary", size:"md", loading:false, disabled:false };`, name)
}

func buttonTest(name string) string {
	return fmt.Sprintf(`import React from "react";
import { render, screen } from "@testing-library/react";
import %[1]s from "./%[1]s";

describe("%[1]s", () => {
  it("renders label", () => {
    render(<%[1]s label="Save" />);
    expect(screen.getByText("Save")).toBeInTheDocument();
  });
});`, name)
}
