package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the deck API.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/decks", h.CreateDeck).Methods(http.MethodPost)
	api.HandleFunc("/themes", h.ListThemes).Methods(http.MethodGet)
	api.HandleFunc("/themes/{name}", h.GetTheme).Methods(http.MethodGet)

	return CORS(h.AllowedOrigins)(r)
}
