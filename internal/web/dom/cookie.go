package dom

import (
	"net/url"
	"strings"
)

// cookieValue finds name in a document.cookie string and decodes its value
// the way js-cookie encodes it.
func cookieValue(header, name string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != name {
			continue
		}
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return v, true
		}
		return decoded, true
	}
	return "", false
}

// formatCookie builds a session cookie assignment for document.cookie.
func formatCookie(name, value string) string {
	return name + "=" + url.PathEscape(value) + "; path=/; SameSite=Lax"
}
