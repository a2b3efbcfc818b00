package analyzer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"deckgen/internal/deck"
)

// Analyzer turns a free-text description into an ordered outline.
type Analyzer struct {
	// Classifier overrides the rule tables for signal detection. Failures
	// fall back to RuleClassifier.
	Classifier Classifier
	Logger     *slog.Logger
}

func (a *Analyzer) logger() *slog.Logger {
	if a != nil && a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Analyze classifies the description and splits it into beats, one slide per
// beat: title, context, approach, key points, auxiliary content, conclusion.
// It returns at least three slides and never drops user text.
func (a *Analyzer) Analyze(ctx context.Context, description string, aux []string) (deck.Outline, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return deck.Outline{}, &deck.InvalidInputError{Reason: "description is empty"}
	}

	var auxText []string
	for _, t := range aux {
		if t = strings.TrimSpace(t); t != "" {
			auxText = append(auxText, t)
		}
	}

	signals := a.classify(ctx, strings.Join(append([]string{description}, auxText...), "\n\n"))
	title := ExtractTitle(description)
	signals.Topic = title

	head, body := splitHead(description)
	beats := orderBeats(parseBeats(body))

	var content, closing []deck.SlideSpec
	for _, b := range beats {
		s := b.slide()
		if s.Kind.IsEnding() {
			closing = append(closing, s)
			continue
		}
		content = append(content, s)
	}
	for _, t := range auxText {
		for _, b := range parseBeats(t) {
			s := b.slide()
			if s.Kind.IsEnding() {
				// Conclusions inside reference files are ordinary content here.
				s.Kind = deck.KindStatement
			}
			content = append(content, s)
		}
	}
	if !hasContent(content) {
		content = append(content, deck.SlideSpec{
			Kind: deck.KindStatement,
			Body: []deck.Fragment{deck.Text(contextText(head, description, title))},
		})
	}
	if len(closing) == 0 {
		closing = append(closing, deck.SlideSpec{
			Kind:    deck.KindClosing,
			Heading: "Thank You",
			Body:    []deck.Fragment{deck.Text(title)},
		})
	}

	slides := make([]deck.SlideSpec, 0, len(content)+len(closing)+1)
	slides = append(slides, deck.SlideSpec{Kind: deck.KindTitle, Heading: title})
	slides = append(slides, content...)
	slides = append(slides, closing...)
	deck.Reindex(slides)

	a.logger().InfoContext(ctx, "analyzed description",
		"stage", "analyze",
		"slides", len(slides),
		"depth", signals.Depth,
		"tone", signals.Tone,
		"content_type", signals.ContentType,
	)
	return deck.Outline{Title: title, Signals: signals, Slides: slides, Source: description}, nil
}

func (a *Analyzer) classify(ctx context.Context, text string) deck.Signals {
	rules, _ := RuleClassifier{}.Classify(ctx, text)
	if a == nil || a.Classifier == nil {
		return rules
	}
	sig, err := a.Classifier.Classify(ctx, text)
	if err != nil {
		a.logger().WarnContext(ctx, "classifier failed, using rule tables", "stage", "analyze", "error", err)
		return rules
	}
	return sig.Normalize()
}

func hasContent(slides []deck.SlideSpec) bool {
	for _, s := range slides {
		if s.Kind != deck.KindSection {
			return true
		}
	}
	return false
}

// contextText is the statement shown when the description is a bare topic.
// It repeats the description so nothing the user wrote is lost to title
// truncation.
func contextText(head, description, title string) string {
	if strings.EqualFold(strings.TrimSpace(head), description) && !strings.HasSuffix(title, "...") {
		return capitalize(trimPunct(description))
	}
	return description
}

var codeExtensions = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".ts": "typescript",
	".rs": "rust", ".java": "java", ".cpp": "cpp", ".c": "c", ".rb": "ruby",
	".sh": "bash", ".sql": "sql", ".kt": "kotlin", ".swift": "swift",
}

// AuxFromFile prepares already-decoded file content for Analyze. Source code
// files are fenced so they become code slides.
func AuxFromFile(name, content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	lang, ok := codeExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok || strings.Contains(content, "```") {
		return content
	}
	return "```" + lang + "\n" + content + "\n```"
}
