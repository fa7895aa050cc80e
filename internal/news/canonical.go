package news

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Query parameters that redirect and tracking wrappers use to carry the
// real destination, checked in this order.
var wrapperParams = []string{"url", "u", "q", "target", "dest", "redirect"}

const (
	hangulFirst = '가'
	hangulLast  = '힣'
)

// CanonicalLink strips redirect wrappers from raw and returns the underlying
// target. Links without a wrapper, and links that do not parse, are returned
// unchanged. Nested wrappers are unwrapped until none is left, so the result
// is a fixed point.
func CanonicalLink(raw string) string {
	link := raw
	for {
		next, ok := unwrapLink(link)
		if !ok {
			return link
		}
		link = next
	}
}

// unwrapLink returns the embedded target of a single wrapper layer. The
// target is always shorter than link, which bounds CanonicalLink's loop.
func unwrapLink(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.RawQuery == "" {
		return "", false
	}

	q := u.Query()
	for _, param := range wrapperParams {
		for _, v := range q[param] {
			if isAbsoluteHTTP(v) && v != link {
				return v, true
			}
		}
	}
	return "", false
}

func isAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// TitleKey reduces a title to ASCII letters, ASCII digits and Hangul
// syllables, lower-cased. Titles that differ only in punctuation, spacing or
// case share a key. Titles in other scripts lose those characters entirely.
func TitleKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range norm.NFC.String(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= hangulFirst && r <= hangulLast:
			b.WriteRune(r)
		}
	}
	return b.String()
}
