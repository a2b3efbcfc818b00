package designer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckgen/internal/analyzer"
	"deckgen/internal/deck"
	"deckgen/internal/theme"
)

func newDesigner(t *testing.T) *Designer {
	t.Helper()
	reg, err := theme.DefaultRegistry()
	require.NoError(t, err)
	return &Designer{Registry: reg}
}

func outlineFor(t *testing.T, description string) deck.Outline {
	t.Helper()
	out, err := (&analyzer.Analyzer{}).Analyze(context.Background(), description, nil)
	require.NoError(t, err)
	return out
}

func kinds(slides []deck.SlideSpec) []deck.Kind {
	out := make([]deck.Kind, len(slides))
	for i, s := range slides {
		out[i] = s.Kind
	}
	return out
}

func assertShape(t *testing.T, d deck.DeckSpec) {
	t.Helper()
	require.NotEmpty(t, d.Slides)
	assert.Equal(t, deck.KindTitle, d.Slides[0].Kind)
	assert.True(t, d.Slides[len(d.Slides)-1].Kind.IsEnding(), "last kind %s", d.Slides[len(d.Slides)-1].Kind)
	for i, s := range d.Slides {
		assert.Equal(t, i, s.Index)
		assert.NotEmpty(t, s.Layout.Key, "slide %d", i)
	}
}

func TestDesignSprintReview(t *testing.T) {
	d, err := newDesigner(t).Design(context.Background(),
		outlineFor(t, "weekly sprint review - shipped auth, caching, monitoring"), "")
	require.NoError(t, err)

	assertShape(t, d)
	assert.Equal(t, theme.DefaultName, d.Theme)
	assert.Equal(t, []deck.Kind{
		deck.KindTitle, deck.KindBullets, deck.KindStatement, deck.KindClosing, deck.KindCTA,
	}, kinds(d.Slides))
	assert.Equal(t, "Key Takeaways", d.Slides[2].Heading)
	assert.Equal(t, "Shipped: auth, caching, monitoring", d.Slides[2].Body[0].Text)
	assert.Equal(t, "bullet_list", d.Slides[1].Layout.Key)
	assert.Equal(t, "An overview", d.Slides[0].Subheading)
	assert.Equal(t, 0, d.ImageCount())
}

func TestDesignMinimumSlideCount(t *testing.T) {
	inputs := []string{
		"about shadow environments",
		"Q4 results\n- revenue up 20%\n- churn down 3%",
		"Launch plan. The problem was slow reports. Our solution is incremental caching.",
		"Handler walkthrough\n```go\nfunc main() {}\n```",
		"Roadmap: mobile app, offline mode, SSO, audit logs, billing, exports",
		"Our new product. Sign up today.",
		"Team offsite plan. Contact Dana to join.",
	}
	dz := newDesigner(t)
	for _, in := range inputs {
		d, err := dz.Design(context.Background(), outlineFor(t, in), "")
		require.NoError(t, err, in)
		assert.GreaterOrEqual(t, len(d.Slides), MinSlides, in)
		assertShape(t, d)
	}
}

func TestDesignAddsClosingBeforeUserCTA(t *testing.T) {
	d, err := newDesigner(t).Design(context.Background(), outlineFor(t, "Our new product. Sign up today."), "")
	require.NoError(t, err)

	got := kinds(d.Slides)
	require.GreaterOrEqual(t, len(got), MinSlides)
	assert.Equal(t, []deck.Kind{deck.KindClosing, deck.KindCTA}, got[len(got)-2:])
	assert.Equal(t, "Thank You", d.Slides[len(d.Slides)-2].Heading)
}

func TestDesignSplitsLongBulletList(t *testing.T) {
	out := outlineFor(t, "Roadmap: mobile app, offline mode, SSO, audit logs, billing, exports")
	d, err := newDesigner(t).Design(context.Background(), out, "")
	require.NoError(t, err)

	var headings []string
	for _, s := range d.Slides {
		if s.Kind == deck.KindBullets {
			headings = append(headings, s.Heading)
		}
	}
	require.Len(t, headings, 2)
	assert.Equal(t, headings[0]+" (cont.)", headings[1])
}

func TestDesignPathologicalInputStaysShort(t *testing.T) {
	// A lone title has nothing to summarize or split, so the bounded
	// expansion stops below the minimum instead of inventing content.
	out := deck.Outline{Title: "Lonely", Slides: []deck.SlideSpec{{Kind: deck.KindTitle, Heading: "Lonely"}}}
	d, err := newDesigner(t).Design(context.Background(), out, "")
	require.NoError(t, err)
	assert.Less(t, len(d.Slides), MinSlides)
	assert.Equal(t, []deck.Kind{deck.KindTitle, deck.KindClosing, deck.KindCTA}, kinds(d.Slides))
	assertShape(t, d)
}

func TestDesignRepairsBookends(t *testing.T) {
	out := deck.Outline{
		Source: "about retries",
		Slides: []deck.SlideSpec{
			{Kind: deck.KindStatement, Body: []deck.Fragment{deck.Text("Retry with backoff. Cap the attempts.")}},
		},
	}
	d, err := newDesigner(t).Design(context.Background(), out, "")
	require.NoError(t, err)
	assertShape(t, d)
	assert.Equal(t, "Retries", d.Title)
	assert.Equal(t, "Retries", d.Slides[0].Heading)
	assert.Contains(t, kinds(d.Slides), deck.KindStatement)
}

func TestDesignThemeOverride(t *testing.T) {
	out := outlineFor(t, "weekly sprint review - shipped auth, caching, monitoring")
	dz := newDesigner(t)

	d, err := dz.Design(context.Background(), out, "technical-blueprint")
	require.NoError(t, err)
	assert.Equal(t, "technical_blueprint", d.Theme)
	assert.Equal(t, "bullet_grid", d.Slides[1].Layout.Key)

	_, err = dz.Design(context.Background(), out, "does-not-exist")
	var ute *deck.UnknownThemeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "does-not-exist", ute.Name)
	assert.ErrorIs(t, err, deck.ErrUnknownTheme)
}

func TestSelectTheme(t *testing.T) {
	reg := theme.MustDefaultRegistry()
	cases := []struct {
		sig  deck.Signals
		want string
	}{
		{deck.Signals{Depth: deck.DepthHigh, Tone: deck.ToneExecutive}, "technical_blueprint"},
		{deck.Signals{Depth: deck.DepthMedium, Tone: deck.ToneTechnical}, "technical_blueprint"},
		{deck.Signals{Depth: deck.DepthMedium, HasCode: true}, "technical_blueprint"},
		{deck.Signals{Depth: deck.DepthLow, HasCode: true}, "keynote_minimalist"},
		{deck.Signals{Depth: deck.DepthLow, Tone: deck.ToneExecutive}, "keynote_minimalist"},
		{deck.Signals{Depth: deck.DepthMedium, Audience: deck.AudienceExecutive}, "keynote_minimalist"},
		{deck.Signals{Depth: deck.DepthLow, Tone: deck.ToneGeneral}, theme.DefaultName},
	}
	for _, tc := range cases {
		th, err := SelectTheme(reg, tc.sig, "")
		require.NoError(t, err)
		assert.Equal(t, tc.want, th.Name, fmt.Sprintf("%+v", tc.sig))
	}
}

func TestSelectThemeFallsBackWithoutAffinity(t *testing.T) {
	def := theme.MustDefaultRegistry().Default()
	reg, err := theme.NewRegistry([]theme.Theme{def}, def.Name)
	require.NoError(t, err)

	th, err := SelectTheme(reg, deck.Signals{Depth: deck.DepthHigh}, "")
	require.NoError(t, err)
	assert.Equal(t, def.Name, th.Name)
}

func TestDesignImagePrompts(t *testing.T) {
	d, err := newDesigner(t).Design(context.Background(), outlineFor(t, "about shadow environments"), "")
	require.NoError(t, err)

	th := theme.MustDefaultRegistry().Default()
	prompt := d.Slides[0].ImagePrompt
	assert.True(t, strings.HasPrefix(prompt, "Shadow environments, "+th.ImageStyle.Descriptor()), prompt)
	for _, s := range d.Slides[1:] {
		assert.Empty(t, s.ImagePrompt)
		assert.Nil(t, s.Image)
	}
}

func TestDesignDoesNotMutateOutline(t *testing.T) {
	out := outlineFor(t, "weekly sprint review - shipped auth, caching, monitoring")
	before := deck.CloneSlides(out.Slides)
	_, err := newDesigner(t).Design(context.Background(), out, "")
	require.NoError(t, err)
	assert.Equal(t, before, out.Slides)
}

func TestSubtitle(t *testing.T) {
	assert.Equal(t, "Technical deep dive", Subtitle(deck.ContentTechnical))
	assert.Equal(t, "An overview", Subtitle("unknown"))
}
