package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckgen/internal/deck"
)

func sampleDeck() deck.DeckSpec {
	return deck.DeckSpec{
		Title: "Sample",
		Theme: "keynote_minimalist",
		Slides: []deck.SlideSpec{
			{Index: 0, Kind: deck.KindTitle, Heading: "Sample", ImagePrompt: "Sample, minimalist", Layout: deck.Layout{Key: "title_center"}},
			{Index: 1, Kind: deck.KindStatement, Body: []deck.Fragment{deck.Text("one")}, Layout: deck.Layout{Key: "statement_center"}},
			{Index: 2, Kind: deck.KindClosing, Heading: "Thank You", Layout: deck.Layout{Key: "closing_center"}},
		},
	}
}

type blockingCapability struct{}

func (blockingCapability) Name() string { return "blocking" }
func (blockingCapability) RequestImage(ctx context.Context, _ string, _ AspectRatio) (Image, error) {
	<-ctx.Done()
	return Image{}, ctx.Err()
}

type panickingCapability struct{}

func (panickingCapability) Name() string { return "panicking" }
func (panickingCapability) RequestImage(context.Context, string, AspectRatio) (Image, error) {
	panic("backend exploded")
}

func TestGenerateDisabledMakesNoCalls(t *testing.T) {
	fake := NewFakeCapability()
	g := &Generator{Capability: fake}
	in := sampleDeck()

	out := g.Generate(context.Background(), in, false)
	assert.Equal(t, in, out)
	assert.Zero(t, fake.Calls())

	out = (&Generator{}).Generate(context.Background(), in, true)
	assert.Equal(t, in, out)
}

func TestGenerateAttachesImage(t *testing.T) {
	fake := NewFakeCapability()
	in := sampleDeck()
	out := (&Generator{Capability: fake}).Generate(context.Background(), in, true)

	require.Equal(t, 1, fake.Calls())
	assert.Equal(t, []string{"Sample, minimalist"}, fake.Prompts())
	img := out.Slides[0].Image
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.MIMEType)
	raw, err := base64.StdEncoding.DecodeString(img.Base64)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, raw)
	assert.Equal(t, deck.OverlayDark, out.Slides[0].Layout.Overlay)
	assert.Equal(t, "title_center", out.Slides[0].Layout.Key)

	assert.Nil(t, in.Slides[0].Image, "input deck must not be mutated")
	assert.Equal(t, deck.OverlayNone, in.Slides[0].Layout.Overlay)
	assert.Nil(t, out.Slides[1].Image)
}

func TestGenerateSkipsSlidesWithImage(t *testing.T) {
	fake := NewFakeCapability()
	in := sampleDeck()
	in.Slides[0].Image = &deck.ImageData{MIMEType: "image/png", Base64: "AAAA"}

	out := (&Generator{Capability: fake}).Generate(context.Background(), in, true)
	assert.Zero(t, fake.Calls())
	assert.Equal(t, "AAAA", out.Slides[0].Image.Base64)
}

func TestGenerateFailuresAreAbsorbed(t *testing.T) {
	cases := map[string]*Generator{
		"error":        {Capability: &FakeCapability{Err: ErrFakeFailure}},
		"timeout":      {Capability: blockingCapability{}, Timeout: 20 * time.Millisecond},
		"panic":        {Capability: panickingCapability{}},
		"empty":        {Capability: &FakeCapability{Image: &Image{}}},
		"not an image": {Capability: &FakeCapability{Image: &Image{Bytes: []byte("<html></html>")}}},
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			in := sampleDeck()
			out := g.Generate(context.Background(), in, true)
			assert.Equal(t, in, out)
			assert.Equal(t, "Sample, minimalist", out.Slides[0].ImagePrompt)
			assert.Zero(t, out.ImageCount())
		})
	}
}

func TestRequestWrapsImageGenerationError(t *testing.T) {
	g := &Generator{Capability: &FakeCapability{Err: ErrFakeFailure}}
	_, err := g.request(context.Background(), 3, "p")
	var ige *deck.ImageGenerationError
	require.True(t, errors.As(err, &ige))
	assert.Equal(t, 3, ige.Slide)
	assert.ErrorIs(t, err, ErrFakeFailure)
	assert.ErrorIs(t, err, deck.ErrImageGeneration)
}

func TestRequestDetectsMissingMIMEType(t *testing.T) {
	g := &Generator{Capability: &FakeCapability{Image: &Image{Bytes: pngPixel}}}
	data, err := g.request(context.Background(), 0, "p")
	require.NoError(t, err)
	assert.Equal(t, "image/png", data.MIMEType)
}
