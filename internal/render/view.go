package render

import "deckgen/internal/deck"

// view is what a layout template sees.
type view struct {
	Number     int
	Section    int
	Heading    string
	Subheading string
	Blocks     []block
}

type stat struct {
	Value string
	Label string
}

// block groups consecutive fragments of one kind. Kind is text, list, cards,
// code or stats.
type block struct {
	Kind     string
	Text     string
	Language string
	Items    []string
	Stats    []stat
}

// blocksOf keeps every fragment in body order. Runs of bullets become one
// list (or card grid), runs of stats one stat grid.
func blocksOf(body []deck.Fragment, cards bool) []block {
	var out []block
	listKind := "list"
	if cards {
		listKind = "cards"
	}
	for _, f := range body {
		last := len(out) - 1
		switch f.Kind {
		case deck.FragmentBullet:
			if last >= 0 && out[last].Kind == listKind {
				out[last].Items = append(out[last].Items, f.Text)
				continue
			}
			out = append(out, block{Kind: listKind, Items: []string{f.Text}})
		case deck.FragmentStat:
			st := stat{Value: f.Text, Label: f.Label}
			if last >= 0 && out[last].Kind == "stats" {
				out[last].Stats = append(out[last].Stats, st)
				continue
			}
			out = append(out, block{Kind: "stats", Stats: []stat{st}})
		case deck.FragmentCode:
			out = append(out, block{Kind: "code", Text: f.Text, Language: f.Language})
		default:
			out = append(out, block{Kind: "text", Text: f.Text})
		}
	}
	return out
}
