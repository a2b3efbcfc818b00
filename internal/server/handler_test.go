package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckgen/internal/imagegen"
	"deckgen/internal/output"
	"deckgen/internal/pipeline"
	"deckgen/internal/theme"
)

type fixture struct {
	handler http.Handler
	images  *imagegen.FakeCapability
	sink    *output.MemorySink
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := theme.MustDefaultRegistry()
	images := imagegen.NewFakeCapability()
	p, err := pipeline.New(pipeline.Options{Registry: reg, Images: images})
	require.NoError(t, err)
	sink := output.NewMemorySink()
	h := &Handler{Pipeline: p, Registry: reg, Sink: sink}
	return fixture{handler: NewRouter(h), images: images, sink: sink}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateDeckReturnsHTML(t *testing.T) {
	f := newFixture(t)
	const description = "weekly sprint review - shipped auth, caching, monitoring"
	rec := do(f.handler, http.MethodPost, "/api/decks", `{"description":"`+description+`"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, theme.DefaultName, rec.Header().Get("X-Deck-Theme"))
	assert.Equal(t, "5", rec.Header().Get("X-Deck-Slides"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>"))
	assert.Zero(t, f.images.Calls())

	run := rec.Header().Get("X-Deck-Run")
	require.NotEmpty(t, run)
	name := run + "-" + output.FileName(description)
	assert.Equal(t, "memory://"+name, rec.Header().Get("X-Deck-Location"))
	stored, ok := f.sink.Get(name)
	require.True(t, ok)
	assert.Equal(t, rec.Body.String(), string(stored))
}

func TestCreateDeckWithImagesAndFiles(t *testing.T) {
	f := newFixture(t)
	rec := do(f.handler, http.MethodPost, "/api/decks", `{
		"description": "Cache layer tour",
		"files": [{"name": "cache.go", "content": "package cache\n\nfunc Get() {}"}],
		"theme": "technical-blueprint",
		"images": true
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "technical_blueprint", rec.Header().Get("X-Deck-Theme"))
	assert.Equal(t, 1, f.images.Calls())
	assert.Contains(t, rec.Body.String(), "func Get() {}")
	assert.Contains(t, rec.Body.String(), "data:image/png;base64,")
}

func TestCreateDeckErrors(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"empty description", `{"description":"   "}`, http.StatusBadRequest},
		{"unknown theme", `{"description":"x","theme":"does-not-exist"}`, http.StatusBadRequest},
		{"malformed json", `{"description":`, http.StatusBadRequest},
		{"unknown field", `{"description":"x","speaker":"me"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(f.handler, http.MethodPost, "/api/decks", tc.body)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
	assert.Zero(t, f.images.Calls())
	assert.Empty(t, f.sink.Names())
}

func TestCreateDeckUnknownThemeListsAvailable(t *testing.T) {
	f := newFixture(t)
	rec := do(f.handler, http.MethodPost, "/api/decks", `{"description":"x","theme":"neon"}`)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"keynote_minimalist", "technical_blueprint"}, resp.Available)
}

func TestCreateDeckBodyLimit(t *testing.T) {
	reg := theme.MustDefaultRegistry()
	p, err := pipeline.New(pipeline.Options{Registry: reg})
	require.NoError(t, err)
	h := NewRouter(&Handler{Pipeline: p, Registry: reg, MaxBodyBytes: 64})

	rec := do(h, http.MethodPost, "/api/decks", `{"description":"`+strings.Repeat("a", 200)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, pipeline.Request) (pipeline.Result, error) {
	return pipeline.Result{}, errors.New("disk on fire")
}

func TestCreateDeckInternalError(t *testing.T) {
	h := NewRouter(&Handler{Pipeline: failingRunner{}, Registry: theme.MustDefaultRegistry()})
	rec := do(h, http.MethodPost, "/api/decks", `{"description":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestThemesEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := do(f.handler, http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []themeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "keynote-minimalist", list[0].DisplayName)

	rec = do(f.handler, http.MethodGet, "/api/themes/technical-blueprint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail themeDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "technical_blueprint", detail.Name)
	assert.Equal(t, "bullet_grid", detail.Layouts["bullets"])

	rec = do(f.handler, http.MethodGet, "/api/themes/neon", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	f := newFixture(t)
	rec := do(f.handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	out := httptest.NewRecorder()
	f.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusNoContent, out.Code)
	assert.Equal(t, "http://localhost:5173", out.Header().Get("Access-Control-Allow-Origin"))
}

// linkingSink presigns fake links on top of an in-memory sink.
type linkingSink struct {
	*output.MemorySink
	expiry time.Duration
}

func (l *linkingSink) PresignedURL(ctx context.Context, name string, expiry time.Duration) (string, error) {
	l.expiry = expiry
	return "https://objects.example.com/" + name + "?sig=1", nil
}

func TestCreateDeckLinksLinkerSink(t *testing.T) {
	reg := theme.MustDefaultRegistry()
	p, err := pipeline.New(pipeline.Options{Registry: reg})
	require.NoError(t, err)
	sink := &linkingSink{MemorySink: output.NewMemorySink()}
	h := NewRouter(&Handler{Pipeline: p, Registry: reg, Sink: sink, LinkTTL: time.Hour})

	rec := do(h, http.MethodPost, "/api/decks", `{"description":"Cache layer tour"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	loc := rec.Header().Get("X-Deck-Location")
	require.True(t, strings.HasPrefix(loc, "memory://"))
	assert.Equal(t, "https://objects.example.com/"+strings.TrimPrefix(loc, "memory://")+"?sig=1", rec.Header().Get("X-Deck-URL"))
	assert.Equal(t, time.Hour, sink.expiry)
}

func TestCreateDeckWithoutLinkerHasNoURL(t *testing.T) {
	f := newFixture(t)
	rec := do(f.handler, http.MethodPost, "/api/decks", `{"description":"Cache layer tour"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Deck-URL"))
}

func TestCORSAllowList(t *testing.T) {
	h := CORS([]string{"https://decks.example.com/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://decks.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://decks.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := do(f.handler, http.MethodGet, "/api/decks", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownGrace + time.Second):
		t.Fatal("server did not stop")
	}
}
