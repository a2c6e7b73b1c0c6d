package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// apiRealm names the protected JSON API in WWW-Authenticate challenges.
const apiRealm = `Bearer realm="geosuggest-api"`

// BearerAuthMiddleware guards the JSON suggest API with static API keys.
// The page endpoints are mounted outside it: script tags cannot send an
// Authorization header. With no non-empty keys it passes everything through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			switch {
			case r.Header.Get("Authorization") == "":
				unauthorized(w, "missing authorization header")
			case !ok:
				unauthorized(w, "authorization header must use Bearer scheme")
			case !knownKey(keys, token):
				unauthorized(w, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// knownKey checks token against every key in constant time.
func knownKey(keys [][]byte, token string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", apiRealm)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
}
