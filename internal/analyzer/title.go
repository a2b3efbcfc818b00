package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxTitleLen = 60

var titlePrefixes = []string{"create deck about ", "presentation about ", "deck about ", "about "}

// ExtractTitle derives a deck title from a description: first sentence,
// leading "about ..." phrasing stripped, at most 60 characters, first letter
// upper-cased.
func ExtractTitle(description string) string {
	head, _ := splitHead(strings.TrimSpace(description))
	return cleanTitle(head)
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?;:, ")
	lower := strings.ToLower(s)
	for _, p := range titlePrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	if utf8.RuneCountInString(s) > maxTitleLen {
		r := []rune(s)
		s = strings.TrimSpace(string(r[:maxTitleLen-3])) + "..."
	}
	return capitalize(s)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var headSeparators = []string{" - ", " — ", " – ", ": "}

// splitHead separates the title phrase from the body. The head is the first
// line, the text before a dash/colon separator, or the first sentence.
func splitHead(text string) (head, body string) {
	if text == "" {
		return "", ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		first := strings.TrimSpace(text[:i])
		rest := strings.TrimSpace(text[i+1:])
		if first != "" && !isListLine(first) && !strings.HasPrefix(first, "```") {
			first = strings.TrimLeft(first, "# ")
			if utf8.RuneCountInString(first) > maxTitleLen {
				// The title will be cut, so the body keeps the whole line.
				return first, text
			}
			return first, rest
		}
	}
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best := -1
	sepLen := 0
	for _, sep := range headSeparators {
		if i := strings.Index(line, sep); i > 0 && (best < 0 || i < best) {
			best, sepLen = i, len(sep)
		}
	}
	if best > 0 {
		h := strings.TrimSpace(text[:best])
		b := strings.TrimSpace(text[best+sepLen:])
		if b != "" && utf8.RuneCountInString(h) <= maxTitleLen {
			return h, b
		}
	}
	sentences := splitSentences(text)
	if len(sentences) > 1 && utf8.RuneCountInString(sentences[0]) <= maxTitleLen {
		return sentences[0], strings.TrimSpace(strings.Join(sentences[1:], " "))
	}
	// The head is only a title hint; the body keeps the full text.
	if len(sentences) > 1 {
		return sentences[0], text
	}
	return text, ""
}
