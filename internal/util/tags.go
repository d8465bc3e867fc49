package util

import (
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
)

// Mentions returns every @handle token in text, without the "@", in order of
// appearance. Repeats are kept.
func Mentions(text string) []string {
	return tokens(mentionPattern, text)
}

// Hashtags returns every #tag token in text, without the "#", in order of appearance.
func Hashtags(text string) []string {
	return tokens(hashtagPattern, text)
}

func tokens(pattern *regexp.Regexp, text string) []string {
	if text == "" {
		return nil
	}
	matches := pattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1:])
	}
	return out
}

// TrimTag strips a leading "#" or "@" and surrounding space.
func TrimTag(s string) string {
	s = CleanText(s)
	s = strings.TrimLeft(s, "#@")
	return strings.TrimSpace(s)
}
