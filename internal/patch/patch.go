// Package patch applies unified-diff patches to text. A patch either applies
// completely or not at all: the target text is never left half-modified.
package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyError reports why a patch could not be applied. Hunk is 1-based;
// 0 means the patch as a whole was malformed.
type ApplyError struct {
	Path   string // target path, filled in by batch callers
	Hunk   int
	Reason string
}

func (e *ApplyError) Error() string {
	where := "patch"
	if e.Hunk > 0 {
		where = fmt.Sprintf("hunk %d", e.Hunk)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, where, e.Reason)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// hunk is one @@ block: the lines the target must currently contain (old)
// and the lines that replace them (new), anchored at oldStart (1-based,
// 0 = unanchored, locate by scanning).
type hunk struct {
	oldStart int
	oldLines []string
	newLines []string
}

// Apply applies a unified diff to original and returns the patched text.
// It fails with *ApplyError when the diff is malformed or a hunk's context
// cannot be located in the target.
func Apply(original, patchText string) (string, error) {
	hunks, err := parse(patchText)
	if err != nil {
		return "", err
	}
	if len(hunks) == 0 {
		return "", &ApplyError{Reason: "no hunks in patch"}
	}

	trailingNewline := strings.HasSuffix(original, "\n")
	lines := strings.Split(original, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	// offset tracks how much earlier hunks have shifted the text, so later
	// hunks' stated positions stay meaningful.
	offset := 0
	for i, h := range hunks {
		at, ok := locate(lines, h.oldLines, h.oldStart-1+offset)
		if !ok {
			return "", &ApplyError{Hunk: i + 1, Reason: "context does not match target"}
		}
		replaced := make([]string, 0, len(lines)-len(h.oldLines)+len(h.newLines))
		replaced = append(replaced, lines[:at]...)
		replaced = append(replaced, h.newLines...)
		replaced = append(replaced, lines[at+len(h.oldLines):]...)
		lines = replaced
		offset += len(h.newLines) - len(h.oldLines)
	}

	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return out, nil
}

// locate finds the old block in lines, preferring the stated position and
// widening the search outward from it. Returns the match index.
func locate(lines, block []string, want int) (int, bool) {
	if len(block) == 0 {
		// Pure-insertion hunk with no context anchors at the stated position.
		if want < 0 {
			want = 0
		}
		if want > len(lines) {
			want = len(lines)
		}
		return want, true
	}
	if want < 0 {
		want = 0
	}
	max := len(lines) - len(block)
	for delta := 0; ; delta++ {
		lo, hi := want-delta, want+delta
		if lo < 0 && hi > max {
			return 0, false
		}
		if hi <= max && matchAt(lines, block, hi) {
			return hi, true
		}
		if delta > 0 && lo >= 0 && lo <= max && matchAt(lines, block, lo) {
			return lo, true
		}
	}
}

func matchAt(lines, block []string, at int) bool {
	if at < 0 || at+len(block) > len(lines) {
		return false
	}
	for i, b := range block {
		if lines[at+i] != b {
			return false
		}
	}
	return true
}

// parse extracts the hunks from a unified diff, tolerating the usual
// headers (---, +++, diff, Index:) before and between hunks.
func parse(patchText string) ([]*hunk, error) {
	var hunks []*hunk
	var cur *hunk

	for _, line := range strings.Split(patchText, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			cur = &hunk{oldStart: parseOldStart(line)}
			hunks = append(hunks, cur)
		case cur == nil:
			// Header noise before the first hunk.
		case strings.HasPrefix(line, " "):
			text := line[1:]
			cur.oldLines = append(cur.oldLines, text)
			cur.newLines = append(cur.newLines, text)
		case strings.HasPrefix(line, "-"):
			cur.oldLines = append(cur.oldLines, line[1:])
		case strings.HasPrefix(line, "+"):
			cur.newLines = append(cur.newLines, line[1:])
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file" markers carry no content.
		case line == "":
			// Blank context lines arrive as "" when the diff producer trims
			// the leading space; treat them as shared context.
			cur.oldLines = append(cur.oldLines, "")
			cur.newLines = append(cur.newLines, "")
		default:
			return nil, &ApplyError{Hunk: len(hunks), Reason: fmt.Sprintf("malformed line %q", line)}
		}
	}

	// A trailing blank "context" line is almost always the split artifact of
	// the patch's own final newline, not content.
	for _, h := range hunks {
		trimTrailingBlank(h)
	}
	return hunks, nil
}

func trimTrailingBlank(h *hunk) {
	for len(h.oldLines) > 0 && len(h.newLines) > 0 &&
		h.oldLines[len(h.oldLines)-1] == "" && h.newLines[len(h.newLines)-1] == "" {
		h.oldLines = h.oldLines[:len(h.oldLines)-1]
		h.newLines = h.newLines[:len(h.newLines)-1]
	}
}

// parseOldStart reads the old-file start line from "@@ -l,c +l,c @@".
// Bare "@@" markers (no ranges) yield 0, meaning unanchored.
func parseOldStart(header string) int {
	fields := strings.Fields(header)
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			numPart := strings.TrimPrefix(f, "-")
			if i := strings.Index(numPart, ","); i >= 0 {
				numPart = numPart[:i]
			}
			if n, err := strconv.Atoi(numPart); err == nil {
				return n
			}
		}
	}
	return 0
}
