package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CleanText applies NFC composition, replaces non-breaking spaces and trims.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// NormalizeHandle strips a leading "@" and compares case-insensitively.
func NormalizeHandle(handle string) string {
	handle = CleanText(handle)
	handle = strings.TrimPrefix(handle, "@")
	return strings.ToLower(handle)
}

// SameHandle reports whether two handles name the same account.
func SameHandle(a, b string) bool {
	na, nb := NormalizeHandle(a), NormalizeHandle(b)
	return na != "" && na == nb
}

// StrPtr returns a pointer to s, or nil when s is empty.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
