package analyzer

import (
	"context"
	"regexp"
	"strings"

	"deckgen/internal/deck"
)

// Classifier derives content signals from text.
type Classifier interface {
	Classify(ctx context.Context, text string) (deck.Signals, error)
}

// RuleClassifier is the deterministic keyword classifier.
type RuleClassifier struct{}

var technicalTerms = []string{
	"architecture", "implementation", "algorithm", "infrastructure",
	"api", "database", "microservice", "container", "kubernetes",
	"protocol", "cache", "queue", "async", "performance",
	"latency", "throughput", "schema", "endpoint", "concurrency",
	"compiler", "runtime", "sdk", "grpc", "deployment",
}

var codeKeywords = []string{"code", "function", "class", "syntax", "snippet"}

var toneKeywords = map[deck.Tone][]string{
	deck.ToneExecutive: {
		"revenue", "roi", "cost", "margin", "growth", "strategy", "stakeholder",
		"board", "quarterly", "investor", "market", "kpi", "budget", "profit",
		"business", "executive", "leadership", "enterprise", "professional",
		"q1", "q2", "q3", "q4",
	},
	deck.ToneTechnical: {
		"architecture", "api", "implementation", "latency", "deployment",
		"infrastructure", "refactor", "database", "code", "engineering",
		"migration", "protocol", "kubernetes", "algorithm", "benchmark",
	},
	deck.ToneCasual: {
		"fun", "awesome", "cool", "hey", "lol", "party", "celebrate",
		"exciting", "amazing", "yay", "story", "hackathon",
	},
}

// toneOrder fixes iteration order so ties resolve identically every run.
var toneOrder = []deck.Tone{deck.ToneExecutive, deck.ToneTechnical, deck.ToneCasual}

var (
	fenceRe   = regexp.MustCompile("(?s)```.*?```")
	codeTokRe = regexp.MustCompile("`[^`\n]+`" + `|\b[A-Za-z_]\w*\([^()\n]*\)|::|->|=>|:=|==|\{|\}|\b[a-z]+_[a-z_]+\b|\b[a-z]+[A-Z]\w*\b`)
	versionRe = regexp.MustCompile(`(?i)\bv?\d+\.\d+(?:\.\d+)*\b(?:[^%x×\w]|$)`)
)

var contentTypeRules = []struct {
	typ   deck.ContentType
	words []string
}{
	{deck.ContentFeatureLaunch, []string{"feature", "launch", "release", "announce"}},
	{deck.ContentTechnical, []string{"architecture", "system", "design", "technical"}},
	{deck.ContentBusiness, []string{"metric", "roi", "cost", "revenue", "business"}},
	{deck.ContentTutorial, []string{"tutorial", "how to", "guide", "learn"}},
	{deck.ContentVision, []string{"vision", "strategy", "future", "roadmap"}},
}

func (RuleClassifier) Classify(_ context.Context, text string) (deck.Signals, error) {
	set := tokenSet(text)
	lower := strings.ToLower(text)
	return deck.Signals{
		Depth:       depthOf(text, set),
		Tone:        toneOf(text, set),
		Audience:    audienceOf(set),
		ContentType: contentTypeOf(lower, set),
		HasCode:     hasCode(text, set),
	}, nil
}

func countTerms(set map[string]bool, terms []string) int {
	n := 0
	for _, t := range terms {
		if set[t] {
			n++
		}
	}
	return n
}

func hasCodeTokens(text string) bool {
	return fenceRe.MatchString(text) || codeTokRe.MatchString(text)
}

func hasCode(text string, set map[string]bool) bool {
	return hasCodeTokens(text) || countTerms(set, codeKeywords) > 0
}

// depthOf scores distinct technical terms, code-like tokens (2) and version
// numbers (1): 0 is low, 1-2 medium, 3+ high.
func depthOf(text string, set map[string]bool) deck.Depth {
	score := countTerms(set, technicalTerms)
	if hasCodeTokens(text) {
		score += 2
	}
	if versionRe.MatchString(text) {
		score++
	}
	switch {
	case score >= 3:
		return deck.DepthHigh
	case score >= 1:
		return deck.DepthMedium
	default:
		return deck.DepthLow
	}
}

// toneOf picks the tone with the most keyword hits. A tie for the top score,
// including no hits at all, is general.
func toneOf(text string, set map[string]bool) deck.Tone {
	scores := map[deck.Tone]int{}
	for _, tone := range toneOrder {
		scores[tone] = countTerms(set, toneKeywords[tone])
	}
	if hasCodeTokens(text) {
		scores[deck.ToneTechnical]++
	}
	if strings.Count(text, "!") >= 2 {
		scores[deck.ToneCasual]++
	}
	best, bestScore, tie := deck.ToneGeneral, 0, false
	for _, tone := range toneOrder {
		switch s := scores[tone]; {
		case s > bestScore:
			best, bestScore, tie = tone, s, false
		case s == bestScore && s > 0:
			tie = true
		}
	}
	if tie || bestScore == 0 {
		return deck.ToneGeneral
	}
	return best
}

func audienceOf(set map[string]bool) deck.Audience {
	switch {
	case countTerms(set, []string{"developer", "engineer", "technical", "code", "api"}) > 0:
		return deck.AudienceTechnical
	case countTerms(set, []string{"executive", "ceo", "leadership", "business", "board"}) > 0:
		return deck.AudienceExecutive
	default:
		return deck.AudienceMixed
	}
}

func contentTypeOf(lower string, set map[string]bool) deck.ContentType {
	for _, rule := range contentTypeRules {
		for _, w := range rule.words {
			if strings.Contains(w, " ") {
				if strings.Contains(lower, w) {
					return rule.typ
				}
				continue
			}
			if set[w] {
				return rule.typ
			}
		}
	}
	return deck.ContentGeneral
}
