package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"deckgen/internal/deck"
)

type role int

const (
	roleContext role = iota
	roleApproach
	roleKeyPoint
	roleConclusion
)

var roleHeadings = map[role]string{
	roleContext:  "The Challenge",
	roleApproach: "The Approach",
	roleKeyPoint: "Key Points",
}

var roleCues = []struct {
	role role
	cues []string
}{
	{roleConclusion, []string{"in summary", "to summarize", "in conclusion", "conclusion", "next step", "takeaway", "finally", "going forward", "call to action", "get started", "learn more", "sign up"}},
	{roleContext, []string{"problem", "challenge", "issue", "pain", "struggle", "bottleneck", "currently", "today we", "why "}},
	{roleApproach, []string{"solution", "approach", "how we", "we built", "we will", "our plan", "strategy", "introduc", "propose"}},
}

var ctaCues = []string{"get started", "sign up", "try it", "join", "learn more", "contact", "call to action", "reach out", "visit"}

// beat is one semantic unit of the outline; it becomes exactly one slide.
type beat struct {
	role      role
	section   bool
	heading   string
	sentences []string
	items     []string
	code      *deck.Fragment
	stats     []deck.Fragment
}

func roleOf(text string) role {
	lower := " " + strings.ToLower(text) + " "
	for _, rc := range roleCues {
		for _, c := range rc.cues {
			if strings.Contains(lower, " "+c) {
				return rc.role
			}
		}
	}
	return roleKeyPoint
}

var (
	fenceBlockRe = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\n(.*?)\n?```")
	metricRe     = regexp.MustCompile(`(?i)(?:[$€£]\d[\d,]*(?:\.\d+)?\s?(?:[kmb]|bn)?|\d[\d,]*(?:\.\d+)?\s?(?:%|x\b|×|k\b|m\b|bn\b))`)
)

// parseBeats turns body text into beats, preserving the order the user wrote.
func parseBeats(body string) []beat {
	var beats []beat
	rest := body
	for {
		loc := fenceBlockRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			beats = append(beats, parseProse(rest)...)
			break
		}
		beats = append(beats, parseProse(rest[:loc[0]])...)
		lang := rest[loc[2]:loc[3]]
		src := rest[loc[4]:loc[5]]
		code := deck.Code(lang, src)
		heading := "Code"
		if lang != "" {
			heading = capitalize(lang) + " example"
		}
		// A preceding one-line lead-in ("Here is the handler:") titles the code.
		if n := len(beats); n > 0 && beats[n-1].code == nil && len(beats[n-1].sentences) == 1 && len(beats[n-1].items) == 0 && strings.HasSuffix(beats[n-1].sentences[0], ":") {
			heading = trimPunct(beats[n-1].sentences[0])
			beats = beats[:n-1]
		}
		beats = append(beats, beat{role: roleKeyPoint, heading: heading, code: &code})
		rest = rest[loc[1]:]
	}
	return beats
}

// parseProse handles text without fenced code: markdown headings, list
// blocks and paragraphs.
func parseProse(text string) []beat {
	var beats []beat
	var list []string
	var para []string
	heading := ""

	flushList := func() {
		if len(list) == 0 {
			return
		}
		b := listBeat(heading, list)
		heading = ""
		beats = append(beats, b)
		list = nil
	}
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		pb := paragraphBeats(strings.Join(para, " "))
		if heading != "" && len(pb) > 0 && pb[0].heading == "" {
			pb[0].heading = heading
			heading = ""
		}
		beats = append(beats, pb...)
		para = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			flushList()
			flushPara()
		case strings.HasPrefix(line, "#"):
			flushList()
			flushPara()
			if heading != "" {
				beats = append(beats, beat{role: roleKeyPoint, section: true, heading: heading})
			}
			heading = strings.TrimSpace(strings.TrimLeft(line, "#"))
		case isListLine(raw) || isListLine(line):
			flushPara()
			if item := stripListMarker(line); item != "" {
				list = append(list, item)
			}
		default:
			flushList()
			para = append(para, line)
		}
	}
	flushList()
	flushPara()
	if heading != "" {
		beats = append(beats, beat{role: roleKeyPoint, section: true, heading: heading})
	}
	return beats
}

func listBeat(heading string, items []string) beat {
	b := beat{role: roleOf(strings.Join(items, " ")), heading: heading}
	if b.role == roleConclusion {
		b.sentences = items
		return b
	}
	if stats := statsFrom(items); len(stats) == len(items) && len(stats) >= 2 {
		b.stats = stats
		return b
	}
	b.items = items
	return b
}

// paragraphBeats splits a paragraph into sentences and groups consecutive
// sentences of the same role. Inline lists and metric sentences stand alone.
func paragraphBeats(text string) []beat {
	var beats []beat
	for _, s := range splitSentences(text) {
		r := roleOf(s)
		if lead, items, ok := inlineList(s); ok {
			b := beat{role: r, heading: lead}
			if r == roleConclusion {
				b.sentences = []string{s}
			} else {
				b.items = items
			}
			beats = append(beats, b)
			continue
		}
		if r != roleConclusion {
			if stats := statsFrom(splitClauses(s)); len(stats) >= 2 {
				beats = append(beats, beat{role: r, stats: stats})
				continue
			}
		}
		if n := len(beats); n > 0 {
			last := &beats[n-1]
			if last.role == r && len(last.items) == 0 && len(last.stats) == 0 && last.code == nil && !last.section {
				last.sentences = append(last.sentences, s)
				continue
			}
		}
		beats = append(beats, beat{role: r, sentences: []string{s}})
	}
	return beats
}

var leadVerbs = map[string]bool{
	"shipped": true, "built": true, "launched": true, "added": true, "fixed": true,
	"released": true, "delivered": true, "covered": true, "includes": true,
	"including": true, "featuring": true, "covers": true, "ships": true,
}

// inlineList recognizes "lead: a, b, c" and "shipped a, b and c". It needs at
// least three short items.
func inlineList(sentence string) (lead string, items []string, ok bool) {
	s := trimPunct(sentence)
	if i := strings.Index(s, ": "); i > 0 && strings.Contains(s[i:], ",") {
		lead = strings.TrimSpace(s[:i])
		s = strings.TrimSpace(s[i+2:])
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	for _, p := range parts {
		p = strings.TrimSpace(p)
		for _, conj := range []string{"and ", "or ", "& ", "plus "} {
			if strings.HasPrefix(strings.ToLower(p), conj) {
				p = strings.TrimSpace(p[len(conj):])
			}
		}
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	// "a, b and c" leaves "b and c" as one part.
	if n := len(items); n >= 2 {
		if i := strings.LastIndex(items[n-1], " and "); i > 0 && wordCount(items[n-1]) <= 4 {
			items = append(items[:n-1], strings.TrimSpace(items[n-1][:i]), strings.TrimSpace(items[n-1][i+5:]))
		}
	}
	if len(items) < 3 {
		return "", nil, false
	}
	for _, it := range items {
		if wc := wordCount(it); wc == 0 || wc > 8 {
			return "", nil, false
		}
	}
	if lead == "" {
		words := strings.Fields(items[0])
		for i := 0; i < len(words)-1 && i < 3; i++ {
			w := strings.ToLower(words[i])
			if leadVerbs[w] || (len(w) > 4 && strings.HasSuffix(w, "ed")) {
				lead = strings.Join(words[:i+1], " ")
				items[0] = strings.Join(words[i+1:], " ")
				break
			}
		}
	}
	return capitalize(lead), items, true
}

func splitClauses(s string) []string {
	s = trimPunct(s)
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		for _, q := range strings.Split(p, " and ") {
			if q = strings.TrimSpace(q); q != "" {
				out = append(out, q)
			}
		}
	}
	return out
}

// statsFrom extracts a value/label pair from every item carrying a metric.
func statsFrom(items []string) []deck.Fragment {
	var out []deck.Fragment
	for _, it := range items {
		loc := metricRe.FindStringIndex(it)
		if loc == nil {
			continue
		}
		value := strings.TrimSpace(it[loc[0]:loc[1]])
		label := strings.Join(strings.Fields(it[:loc[0]]+" "+it[loc[1]:]), " ")
		out = append(out, deck.Stat(value, trimPunct(label)))
	}
	return out
}

// orderBeats moves context before approach before key points, keeping the
// written order inside a role. Structured input (markdown sections) keeps its
// order. Conclusions always go last.
func orderBeats(beats []beat) []beat {
	structured := false
	for _, b := range beats {
		if b.section {
			structured = true
			break
		}
	}
	rank := func(b beat) int {
		if b.role == roleConclusion {
			return 1
		}
		return 0
	}
	if !structured {
		rank = func(b beat) int { return int(b.role) }
	}
	out := append([]beat(nil), beats...)
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func (b beat) slide() deck.SlideSpec {
	s := deck.SlideSpec{Heading: b.heading}
	switch {
	case b.section:
		s.Kind = deck.KindSection
	case b.code != nil:
		s.Kind = deck.KindCode
		s.Body = []deck.Fragment{*b.code}
	case len(b.stats) >= 2:
		s.Kind = deck.KindStats
		s.Body = append(s.Body, b.stats...)
	case b.role == roleConclusion:
		s.Kind = deck.KindClosing
		if isCTA(strings.Join(b.sentences, " ")) {
			s.Kind = deck.KindCTA
		}
		for _, t := range b.sentences {
			s.Body = append(s.Body, deck.Text(t))
		}
	case len(b.items) > 0:
		s.Kind = deck.KindBullets
		for _, it := range b.items {
			s.Body = append(s.Body, deck.Bullet(it))
		}
	case len(b.sentences) > 1:
		s.Kind = deck.KindBullets
		for _, t := range b.sentences {
			s.Body = append(s.Body, deck.Bullet(t))
		}
	default:
		s.Kind = deck.KindStatement
		for _, t := range b.sentences {
			s.Body = append(s.Body, deck.Text(t))
		}
	}
	if s.Heading == "" {
		switch s.Kind {
		case deck.KindBullets, deck.KindStats:
			s.Heading = roleHeadings[b.role]
		case deck.KindClosing:
			s.Heading = "Thank You"
		case deck.KindCTA:
			s.Heading = "Get Started"
		}
	}
	return s
}

func isCTA(text string) bool {
	lower := strings.ToLower(text)
	for _, c := range ctaCues {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}
