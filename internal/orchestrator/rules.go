package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/modforge/modforge/internal/bundle"
)

// Rule is one deterministic update capability. Match inspects the free-text
// instruction; Apply derives a new bundle (identity assigned by the caller)
// and a diff-flavored patch text describing what it did. Apply must be
// idempotent: running it against its own output changes nothing.
//
// The table is deliberately narrow. A rule only fires on its own keyword
// set; instructions nothing matches get an explicit no-op, never a guess.
type Rule struct {
	Name  string
	Match func(instruction string) bool
	Apply func(current *bundle.Bundle) (patchText string, next *bundle.Bundle)
}

// NoOpPatchText marks an update where no fallback rule matched. It is a
// visible artifact, not a silent drop.
const NoOpPatchText = "--- a/NOOP\n+++ b/NOOP\n@@\n+ No fallback rule matched.\n"

// DefaultRules returns the built-in rule table. New intents belong here as
// additional entries.
func DefaultRules() []Rule {
	return []Rule{sizeVariantsRule()}
}

// applyRules runs the first matching rule, or returns the explicit no-op.
func applyRules(rules []Rule, current *bundle.Bundle, instruction string) (string, *bundle.Bundle) {
	for _, r := range rules {
		if r.Match(instruction) {
			return r.Apply(current)
		}
	}
	return NoOpPatchText, current.Clone()
}

// --- Size variants rule ---

var (
	sizeIntentRe   = regexp.MustCompile(`(?i)\bsize\b|\bsm\b|\bmd\b|\blg\b`)
	sizeDefaultRe  = regexp.MustCompile(`\bsize\s*=\s*"md"`)
	sizeClassRe    = regexp.MustCompile(`mfSm|mfMd|mfLg`)
	variantPropRe  = regexp.MustCompile(`variant\s*=\s*"primary",`)
	rootClassMark  = `"mfRoot",`
	sizeClassLogic = "\n    size === \"sm\" ? \"mfSm\" : size === \"lg\" ? \"mfLg\" : \"mfMd\","
	sizeCSSBlock   = "\n\n/* Size variants (patch) */\n.mfSm{padding:8px 12px;font-size:13px;border-radius:10px;}\n.mfMd{padding:10px 16px;font-size:14px;border-radius:12px;}\n.mfLg{padding:12px 18px;font-size:15px;border-radius:14px;}\n"
)

// sizeVariantsRule adds a size prop (default md), the size-to-class mapping,
// and the size CSS rules to a button bundle. Each edit is guarded so the
// rule can run any number of times without duplicating insertions.
func sizeVariantsRule() Rule {
	return Rule{
		Name:  "size-variants",
		Match: sizeIntentRe.MatchString,
		Apply: func(current *bundle.Bundle) (string, *bundle.Bundle) {
			next := current.Clone()

			jsxPath := next.ComponentPath
			cssPath := next.StylesheetPath
			if _, ok := next.Files[jsxPath]; !ok {
				return "--- a/ERR\n+++ b/ERR\n@@\n+ component file not found\n", next
			}
			if _, ok := next.Files[cssPath]; !ok {
				return "--- a/ERR\n+++ b/ERR\n@@\n+ stylesheet file not found\n", next
			}

			jsx := next.Files[jsxPath]
			css := next.Files[cssPath]
			changed := false

			if !sizeDefaultRe.MatchString(jsx) {
				jsx = variantPropRe.ReplaceAllString(jsx, "variant = \"primary\",\n  size = \"md\",")
				changed = true
			}
			if !sizeClassRe.MatchString(jsx) {
				jsx = strings.Replace(jsx, rootClassMark, rootClassMark+sizeClassLogic, 1)
				changed = true
			}
			if !strings.Contains(css, ".mfSm") {
				css += sizeCSSBlock
				changed = true
			}

			if !changed {
				return fmt.Sprintf("--- a/%[1]s\n+++ b/%[1]s\n@@\n+ Size variants already present (no changes)\n", jsxPath), next
			}

			next.Files[jsxPath] = jsx
			next.Files[cssPath] = css
			next.Summary = current.Summary + " Updated: size variants."
			return fmt.Sprintf("--- a/%[1]s\n+++ b/%[1]s\n@@\n+ Added size prop\n\n--- a/%[2]s\n+++ b/%[2]s\n@@\n+ Added size CSS\n", jsxPath, cssPath), next
		},
	}
}
