package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Sink stores a finished document and reports where it went.
type Sink interface {
	Write(ctx context.Context, name string, html []byte) (location string, err error)
}

// Linker is a Sink that can also hand out a temporary HTTP link to a
// stored document.
type Linker interface {
	Sink
	PresignedURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

const maxSlugLen = 50

// Slug makes a file-name-safe stem from a description: lower case, spaces as
// hyphens, letters, digits and hyphens only, at most 50 characters.
func Slug(description string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(description)) {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('-')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "deck"
	}
	return slug
}

// FileName is Slug plus the .html extension.
func FileName(description string) string { return Slug(description) + ".html" }

// FileSink writes documents under Dir. A document appears under its final
// name only once fully written.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(ctx context.Context, name string, html []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("output: invalid file name %q", name)
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("output: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("output: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("output: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("output: chmod %s: %w", tmpName, err)
	}
	final := filepath.Join(dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		cleanup()
		return "", fmt.Errorf("output: rename to %s: %w", final, err)
	}
	abs, err := filepath.Abs(final)
	if err != nil {
		return final, nil
	}
	return abs, nil
}
