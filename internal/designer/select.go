package designer

import (
	"strings"

	"deckgen/internal/deck"
	"deckgen/internal/theme"
)

// SelectTheme resolves a forced theme verbatim, or walks the priority table:
// high depth picks a technical theme, technical tone or code at medium depth
// too, then an executive tone or audience picks an executive theme. Anything
// else, or an affinity no theme carries, gets the registry default.
func SelectTheme(reg *theme.Registry, sig deck.Signals, override string) (theme.Theme, error) {
	if strings.TrimSpace(override) != "" {
		return reg.Resolve(override)
	}
	if a, ok := affinityFor(sig); ok {
		if th, ok := reg.ByAffinity(a); ok {
			return th, nil
		}
	}
	return reg.Default(), nil
}

func affinityFor(sig deck.Signals) (theme.Affinity, bool) {
	switch {
	case sig.Depth == deck.DepthHigh:
		return theme.AffinityTechnical, true
	case sig.Depth == deck.DepthMedium && (sig.Tone == deck.ToneTechnical || sig.HasCode):
		return theme.AffinityTechnical, true
	case sig.Tone == deck.ToneExecutive, sig.Audience == deck.AudienceExecutive:
		return theme.AffinityExecutive, true
	}
	return "", false
}
