package designer

import (
	"strings"

	"deckgen/internal/analyzer"
	"deckgen/internal/deck"
)

// maxExpansionPasses bounds the expansion rules; input too thin to reach
// MinSlides in that many passes is returned short.
const maxExpansionPasses = 3

const takeawaysHeading = "Key Takeaways"

// ensureBookends makes the first slide a title and the last one a closing.
func ensureBookends(slides []deck.SlideSpec, title string) []deck.SlideSpec {
	if len(slides) == 0 || slides[0].Kind != deck.KindTitle {
		head := deck.SlideSpec{Kind: deck.KindTitle, Heading: title}
		slides = append([]deck.SlideSpec{head}, slides...)
	}
	if !slides[len(slides)-1].Kind.IsEnding() {
		slides = append(slides, deck.SlideSpec{
			Kind:    deck.KindClosing,
			Heading: "Thank You",
			Body:    []deck.Fragment{deck.Text(title)},
		})
	}
	return slides
}

// expand applies the rules in order until the deck reaches MinSlides: a
// takeaways slide, then a split of an overlong bullets slide, then the missing ending
// (call to action or closing).
// No rule invents topical content.
func expand(slides []deck.SlideSpec, title string, maxBullets int) []deck.SlideSpec {
	for pass := 0; pass < maxExpansionPasses && len(slides) < MinSlides; pass++ {
		changed := false
		if out, ok := addTakeaways(slides); ok {
			slides, changed = out, true
		}
		if len(slides) < MinSlides {
			if out, ok := splitBullets(slides, maxBullets); ok {
				slides, changed = out, true
			}
		}
		if len(slides) < MinSlides {
			if out, ok := addEnding(slides, title); ok {
				slides, changed = out, true
			}
		}
		if !changed {
			break
		}
	}
	return slides
}

// endingStart returns the index of the trailing closing/cta group.
func endingStart(slides []deck.SlideSpec) int {
	i := len(slides)
	for i > 1 && slides[i-1].Kind.IsEnding() {
		i--
	}
	return i
}

func insertAt(slides []deck.SlideSpec, i int, s deck.SlideSpec) []deck.SlideSpec {
	out := make([]deck.SlideSpec, 0, len(slides)+1)
	out = append(out, slides[:i]...)
	out = append(out, s)
	return append(out, slides[i:]...)
}

// addTakeaways summarizes the existing content slides into one statement
// placed before the closing group: bullet lists with their heading, the
// first sentence of statements, stat values, code slide headings.
func addTakeaways(slides []deck.SlideSpec) ([]deck.SlideSpec, bool) {
	for _, s := range slides {
		if s.Heading == takeawaysHeading {
			return slides, false
		}
	}
	var body []deck.Fragment
	for _, s := range slides {
		if line := summarize(s); line != "" {
			body = append(body, deck.Text(line))
		}
	}
	if len(body) == 0 {
		return slides, false
	}
	s := deck.SlideSpec{Kind: deck.KindStatement, Heading: takeawaysHeading, Body: body}
	return insertAt(slides, endingStart(slides), s), true
}

func summarize(s deck.SlideSpec) string {
	heading := strings.TrimSpace(s.Heading)
	switch s.Kind {
	case deck.KindBullets:
		var items []string
		for _, f := range s.Body {
			items = append(items, f.Text)
		}
		line := strings.Join(items, ", ")
		if heading != "" && !strings.HasSuffix(heading, "(cont.)") {
			line = heading + ": " + line
		}
		return line
	case deck.KindStatement:
		for _, f := range s.Body {
			if t := strings.TrimSpace(f.Text); t != "" {
				return firstSentence(t)
			}
		}
		return heading
	case deck.KindStats:
		var parts []string
		for _, f := range s.Fragments(deck.FragmentStat) {
			parts = append(parts, strings.TrimSpace(f.Text+" "+f.Label))
		}
		return strings.Join(parts, ", ")
	case deck.KindCode:
		return heading
	}
	return ""
}

func firstSentence(s string) string {
	for i, r := range s {
		if (r == '.' || r == '!' || r == '?') && i+1 < len(s) && s[i+1] == ' ' {
			return s[:i+1]
		}
	}
	return s
}

// splitBullets halves the first bullets slide holding more than max items.
func splitBullets(slides []deck.SlideSpec, max int) ([]deck.SlideSpec, bool) {
	for i, s := range slides {
		if s.Kind != deck.KindBullets || len(s.Body) <= max {
			continue
		}
		mid := (len(s.Body) + 1) / 2
		first := s.Clone()
		first.Body = first.Body[:mid:mid]
		second := s.Clone()
		second.Body = append([]deck.Fragment(nil), s.Body[mid:]...)
		heading := strings.TrimSpace(s.Heading)
		if heading == "" {
			heading = "Key Points"
		}
		second.Heading = heading + " (cont.)"
		out := make([]deck.SlideSpec, 0, len(slides)+1)
		out = append(out, slides[:i]...)
		out = append(out, first, second)
		return append(out, slides[i+1:]...), true
	}
	return slides, false
}

// addEnding supplies whichever ending kind the deck lacks: a call to action
// appended at the end, or a closing placed before an existing one.
func addEnding(slides []deck.SlideSpec, title string) ([]deck.SlideSpec, bool) {
	var hasClosing, hasCTA bool
	for _, s := range slides {
		switch s.Kind {
		case deck.KindClosing:
			hasClosing = true
		case deck.KindCTA:
			hasCTA = true
		}
	}
	if hasClosing && hasCTA {
		return slides, false
	}
	if title == "" {
		title = analyzer.ExtractTitle(slides[0].Heading)
	}
	var body []deck.Fragment
	if title != "" {
		body = []deck.Fragment{deck.Text(title)}
	}
	if !hasCTA {
		return append(slides, deck.SlideSpec{Kind: deck.KindCTA, Heading: "Questions?", Body: body}), true
	}
	closing := deck.SlideSpec{Kind: deck.KindClosing, Heading: "Thank You", Body: body}
	return insertAt(slides, endingStart(slides), closing), true
}
