package mcptool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"deckgen/internal/deck"
	"deckgen/internal/logs"
	"deckgen/internal/output"
	"deckgen/internal/pipeline"
	"deckgen/internal/theme"
)

// LinkTTL is the lifetime of links returned for decks in a presigning sink.
const LinkTTL = 24 * time.Hour

// Runner is the deck pipeline as the tools see it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Service backs the MCP tools.
type Service struct {
	Pipeline      Runner
	Registry      *theme.Registry
	Sink          output.Sink
	DefaultImages bool
	Logger        *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewServer registers create_deck and list_themes.
func NewServer(svc *Service, version string) *server.MCPServer {
	srv := server.NewMCPServer("deckgen", version, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("create_deck",
		mcp.WithDescription("Generate a self-contained HTML slide deck from a description and store it."),
		mcp.WithString("description", mcp.Required(), mcp.Description("What the presentation is about")),
		mcp.WithString("theme", mcp.Description("Force a theme, e.g. keynote-minimalist or technical-blueprint")),
		mcp.WithBoolean("images", mcp.Description("Generate a background image for the title slide")),
	), svc.CreateDeck)

	srv.AddTool(mcp.NewTool("list_themes",
		mcp.WithDescription("List the available deck themes."),
	), svc.ListThemes)

	return srv
}

// ServeStdio blocks serving srv on stdin/stdout.
func ServeStdio(srv *server.MCPServer) error { return server.ServeStdio(srv) }

func (s *Service) CreateDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runID := uuid.NewString()
	ctx = logs.WithRun(ctx, runID)

	res, err := s.Pipeline.Run(ctx, pipeline.Request{
		Description: description,
		Theme:       req.GetString("theme", ""),
		Images:      req.GetBool("images", s.DefaultImages),
	})
	if err != nil {
		if errors.Is(err, deck.ErrInvalidInput) || errors.Is(err, deck.ErrUnknownTheme) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.logger().ErrorContext(ctx, "create_deck failed", "error", err)
		return nil, fmt.Errorf("create deck: %w", err)
	}

	location, link := "", ""
	if s.Sink != nil {
		name := output.FileName(description)
		location, err = s.Sink.Write(ctx, name, []byte(res.HTML))
		if err != nil {
			return nil, fmt.Errorf("store deck: %w", err)
		}
		if l, ok := s.Sink.(output.Linker); ok {
			if link, err = l.PresignedURL(ctx, name, LinkTTL); err != nil {
				s.logger().WarnContext(ctx, "presign deck link failed", "error", err)
				link = ""
			}
		}
	}
	out := Summary(res.Deck, location)
	if link != "" {
		out += "\nLink: " + link
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Service) ListThemes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, t := range s.Registry.Themes() {
		fmt.Fprintf(&b, "%s\n  %s\n", t.DisplayName(), t.Description)
		if bf := t.BestFor(); bf != "" {
			fmt.Fprintf(&b, "  Best for: %s\n", bf)
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// Summary describes a generated deck in a few lines.
func Summary(d deck.DeckSpec, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deck: %s\nTheme: %s\nSlides: %d\nImages: %d\n", d.Title, strings.ReplaceAll(d.Theme, "_", "-"), len(d.Slides), d.ImageCount())
	if location != "" {
		fmt.Fprintf(&b, "Location: %s\n", location)
	}
	for _, s := range d.Slides {
		heading := s.Heading
		if heading == "" && len(s.Body) > 0 {
			heading = s.Body[0].Text
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", s.Index+1, s.Kind, heading)
	}
	return strings.TrimRight(b.String(), "\n")
}
