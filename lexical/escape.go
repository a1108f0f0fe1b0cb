package lexical

import (
	"html"
	"net/url"
	"strings"
)

// EscapeText escapes s for use as HTML text content.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// EscapeAttr escapes s for use inside a double quoted attribute value.
func EscapeAttr(s string) string {
	return html.EscapeString(s)
}

var safeSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// SafeURL returns raw if it is a relative URL or uses one of the allowed
// schemes, and "#" otherwise. The result still has to go through EscapeAttr.
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	if u.Scheme == "" {
		// browsers treat a colon before any '/', '?' or '#' as a scheme
		if i := strings.IndexByte(raw, ':'); i >= 0 && !strings.ContainsAny(raw[:i], "/?#") {
			return "#"
		}
		return raw
	}
	if !safeSchemes[strings.ToLower(u.Scheme)] {
		return "#"
	}
	return raw
}
