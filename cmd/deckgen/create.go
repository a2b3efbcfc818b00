package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"deckgen/internal/deck"
	"deckgen/internal/output"
	"deckgen/internal/pipeline"
)

// fileList collects repeated -f flags.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }
func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func runCreate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var files fileList
	fs.Var(&files, "f", "auxiliary file to include (repeatable)")
	themeName := fs.String("t", "", "force a theme (see list-themes)")
	outDir := fs.String("o", "", "output directory (default $DECKGEN_OUTPUT_DIR or ./output)")
	noOpen := fs.Bool("no-open", false, "do not open the deck in a browser")
	images := fs.String("images", "", "generate background images: true or false (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return errors.New(`create needs a description, e.g. deckgen create "weekly sprint review"`)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	req := pipeline.Request{
		Description: description,
		Theme:       firstNonEmpty(*themeName, a.cfg.Theme),
		Images:      a.cfg.Image.Enabled,
	}
	if *images != "" {
		if req.Images, err = parseBool(*images); err != nil {
			return fmt.Errorf("-images: %w", err)
		}
	}
	if req.Files, err = readFiles(files); err != nil {
		return err
	}
	if req.Images && a.cfg.APIKey == "" {
		a.logger.Warn("image generation requested without GEMINI_API_KEY; continuing without images")
	}

	res, err := a.pipeline.Run(ctx, req)
	if err != nil {
		return err
	}
	sink, err := a.sink(*outDir)
	if err != nil {
		return err
	}
	location, err := sink.Write(ctx, output.FileName(description), []byte(res.HTML))
	if err != nil {
		return fmt.Errorf("write deck: %w", err)
	}

	printDeck(stdout, res.Deck, location)
	if _, local := sink.(output.FileSink); local && !*noOpen {
		if err := openBrowser(location); err != nil {
			a.logger.Warn("open browser", "path", location, "error", err)
		}
	}
	return nil
}

// readFiles loads auxiliary inputs. Binary files are rejected rather than
// fed to the analyzer as noise.
func readFiles(paths []string) ([]pipeline.File, error) {
	out := make([]pipeline.File, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("read %s: not a text file", p)
		}
		out = append(out, pipeline.File{Name: filepath.Base(p), Content: string(raw)})
	}
	return out, nil
}

func printDeck(w io.Writer, d deck.DeckSpec, location string) {
	fmt.Fprintln(w, okStyle.Render("Deck created"))
	fmt.Fprintln(w, indentStyle.Render(field("Title", d.Title)))
	fmt.Fprintln(w, indentStyle.Render(field("Theme", strings.ReplaceAll(d.Theme, "_", "-"))))
	fmt.Fprintln(w, indentStyle.Render(field("Slides", fmt.Sprint(len(d.Slides)))))
	if n := d.ImageCount(); n > 0 {
		fmt.Fprintln(w, indentStyle.Render(field("Images", fmt.Sprint(n))))
	}
	fmt.Fprintln(w, indentStyle.Render(field("Output", location)))
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true, nil
	case "0", "f", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("want true or false, got %q", s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
