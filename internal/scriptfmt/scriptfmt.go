package scriptfmt

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Script format:
// - Lines starting with "# " or "## " are headings (scene / cut names).
// - The nearest heading before the cursor is the current scene; its name
//   seeds the suggested take filename.
// - Takes within a scene are numbered "scene_01.wav", "scene_02.wav", ...

// DefaultMaxLength is the filename token length used for script-derived names.
const DefaultMaxLength = 64

var (
	illegalRuns = regexp.MustCompile(`[\\/:*?"<>|[:space:][:cntrl:]]+`)
	takeNumber  = regexp.MustCompile(`_(\d+)`)
)

// CurrentSection returns the scene name for the given cursor position:
// the nearest preceding line (including the cursor's own line) that starts
// with "# " or "## ". Returns "" when no heading precedes the cursor.
// cursorPos is a byte offset into scriptText.
func CurrentSection(scriptText string, cursorPos int) string {
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len(scriptText) {
		cursorPos = len(scriptText)
	}

	before := scriptText[:cursorPos]
	lineStart := strings.LastIndexByte(before, '\n') + 1

	// Extend through the remainder of the cursor's line, but only when the
	// cursor sits past the start of that line.
	restOfLine := ""
	if cursorPos > lineStart {
		restOfLine = scriptText[cursorPos:]
		if i := strings.IndexByte(restOfLine, '\n'); i >= 0 {
			restOfLine = restOfLine[:i]
		}
	}

	lines := strings.Split(before+restOfLine, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		s := strings.TrimSpace(lines[i])
		if strings.HasPrefix(s, "## ") {
			return strings.TrimSpace(s[3:])
		}
		if strings.HasPrefix(s, "# ") {
			return strings.TrimSpace(s[2:])
		}
	}
	return ""
}

// SanitizeForFilename turns an arbitrary string into a filesystem-safe token:
// NFKC normalization, runs of \ / : * ? " < > | and whitespace collapse to a
// single underscore, leading dots/underscores/spaces are stripped, the result
// is truncated to maxLength runes and trailing separators removed.
// Empty input, or input that sanitizes to nothing, returns "".
func SanitizeForFilename(name string, maxLength int) string {
	if name == "" {
		return ""
	}
	n := norm.NFKC.String(name)
	n = illegalRuns.ReplaceAllString(n, "_")
	n = strings.TrimLeft(n, "._ ")
	if n == "" {
		return ""
	}
	if r := []rune(n); len(r) > maxLength {
		n = string(r[:maxLength])
	}
	return strings.TrimRight(n, "._ ")
}

// SuggestTakeBasename proposes the base filename (no extension) for the next
// take recorded at cursorPos. The prefix is the sanitized current scene name,
// or "take" when no scene applies. Existing filenames matching "prefix_NN"
// (case-insensitively, with or without a .wav suffix or trailing decoration)
// are scanned for the highest NN; the result is "prefix_NN+1" zero-padded to
// two digits.
func SuggestTakeBasename(scriptText string, cursorPos int, existingWAVFilenames []string) string {
	prefix := SanitizeForFilename(CurrentSection(scriptText, cursorPos), DefaultMaxLength)
	if prefix == "" {
		prefix = "take"
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + takeNumber.String())
	maxN := 0
	for _, f := range existingWAVFilenames {
		base := f
		if strings.HasSuffix(strings.ToLower(base), ".wav") {
			base = base[:len(base)-4]
		}
		m := pattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(m[1], "%d", &n); err == nil && n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s_%02d", prefix, maxN+1)
}
