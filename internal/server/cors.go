package server

import (
	"net/http"
	"strings"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization"
	corsExposed = "X-Deck-Run, X-Deck-Location, X-Deck-URL, X-Deck-Theme, X-Deck-Slides"
)

// CORS answers preflight requests and decorates responses for browsers.
// With no origins every origin is allowed; otherwise only the listed ones
// are echoed back.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = true
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			switch origin := strings.TrimSpace(r.Header.Get("Origin")); {
			case origin == "" && len(allowed) == 0:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && (len(allowed) == 0 || allowed[origin]):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposed)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
