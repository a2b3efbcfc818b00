package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"deckgen/internal/deck"
	"deckgen/internal/logs"
	"deckgen/internal/output"
	"deckgen/internal/pipeline"
	"deckgen/internal/theme"
)

const (
	defaultMaxBody = 4 << 20
	defaultLinkTTL = 24 * time.Hour
)

// Runner is the deck pipeline as the HTTP layer sees it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

type Handler struct {
	Pipeline Runner
	Registry *theme.Registry
	// Sink, when set, receives a copy of every generated deck.
	Sink          output.Sink
	DefaultImages bool
	MaxBodyBytes  int64
	// LinkTTL is the lifetime of X-Deck-URL links from an output.Linker sink.
	LinkTTL time.Duration
	// AllowedOrigins restricts CORS; empty allows any origin.
	AllowedOrigins []string
	Logger         *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type createDeckRequest struct {
	Description string          `json:"description"`
	Files       []pipeline.File `json:"files"`
	Theme       string          `json:"theme"`
	Images      *bool           `json:"images"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Available []string `json:"available,omitempty"`
}

type themeSummary struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	BestFor     string         `json:"best_for"`
	Affinity    theme.Affinity `json:"affinity"`
}

type themeDetail struct {
	themeSummary
	Colors     theme.Colors      `json:"colors"`
	Typography theme.Typography  `json:"typography"`
	ImageStyle theme.ImageStyle  `json:"image_style"`
	Layouts    map[string]string `json:"layouts"`
}

func summarize(t theme.Theme) themeSummary {
	return themeSummary{
		Name:        t.Name,
		DisplayName: t.DisplayName(),
		Description: t.Description,
		BestFor:     t.BestFor(),
		Affinity:    t.Affinity,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateDeck runs the pipeline and answers with the HTML document.
func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var body createDeckRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	images := h.DefaultImages
	if body.Images != nil {
		images = *body.Images
	}

	runID := uuid.NewString()
	ctx := logs.WithRun(r.Context(), runID)
	w.Header().Set("X-Deck-Run", runID)

	res, err := h.Pipeline.Run(ctx, pipeline.Request{
		Description: body.Description,
		Files:       body.Files,
		Theme:       body.Theme,
		Images:      images,
	})
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	if h.Sink != nil {
		name := runID + "-" + output.FileName(body.Description)
		loc, err := h.Sink.Write(ctx, name, []byte(res.HTML))
		if err != nil {
			h.logger().WarnContext(ctx, "store deck failed", "error", err)
		} else {
			w.Header().Set("X-Deck-Location", loc)
			h.setLink(ctx, w, name)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Deck-Theme", res.Deck.Theme)
	w.Header().Set("X-Deck-Slides", strconv.Itoa(len(res.Deck.Slides)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.HTML))
}

// setLink adds X-Deck-URL when the sink can presign links to stored decks.
func (h *Handler) setLink(ctx context.Context, w http.ResponseWriter, name string) {
	linker, ok := h.Sink.(output.Linker)
	if !ok {
		return
	}
	u, err := linker.PresignedURL(ctx, name, h.linkTTL())
	if err != nil {
		h.logger().WarnContext(ctx, "presign deck link failed", "error", err)
		return
	}
	w.Header().Set("X-Deck-URL", u)
}

func (h *Handler) linkTTL() time.Duration {
	if h.LinkTTL > 0 {
		return h.LinkTTL
	}
	return defaultLinkTTL
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var ute *deck.UnknownThemeError
	switch {
	case errors.As(err, &ute):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Available: ute.Available})
	case errors.Is(err, deck.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		h.logger().InfoContext(ctx, "deck request canceled")
	default:
		h.logger().ErrorContext(ctx, "deck generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "deck generation failed"})
	}
}

func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes := h.Registry.Themes()
	out := make([]themeSummary, 0, len(themes))
	for _, t := range themes {
		out = append(out, summarize(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	t, ok := h.Registry.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "theme not found: " + name, Available: h.Registry.List()})
		return
	}
	layouts := make(map[string]string, len(t.Layouts))
	for k, v := range t.Layouts {
		layouts[string(k)] = v
	}
	writeJSON(w, http.StatusOK, themeDetail{
		themeSummary: summarize(t),
		Colors:       t.Colors,
		Typography:   t.Typography,
		ImageStyle:   t.ImageStyle,
		Layouts:      layouts,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
