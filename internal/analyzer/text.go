package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

var abbreviations = map[string]bool{
	"e.g.": true, "i.e.": true, "vs.": true, "etc.": true, "mr.": true, "dr.": true, "inc.": true,
}

// splitSentences cuts on . ! ? followed by whitespace, ignoring common
// abbreviations and decimals.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(strings.TrimSpace(text))
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		word := lastWord(string(runes[start : i+1]))
		if r == '.' && abbreviations[strings.ToLower(word)] {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func wordCount(s string) int { return len(strings.Fields(s)) }

var wordRe = regexp.MustCompile(`[a-z0-9]+(?:[-'][a-z0-9]+)*`)

// tokens lower-cases text and returns its word tokens.
func tokens(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// tokenSet maps each token, and its singular form, to true.
func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, t := range tokens(text) {
		set[t] = true
		if len(t) > 3 && strings.HasSuffix(t, "s") {
			set[strings.TrimSuffix(t, "s")] = true
		}
	}
	return set
}

var listMarkerRe = regexp.MustCompile(`^\s*(?:[-*•+]|\d{1,2}[.)])\s+`)

func isListLine(line string) bool { return listMarkerRe.MatchString(line) }

func stripListMarker(line string) string {
	return strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
}

func trimPunct(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ".;,!:"))
}
