package imagegen

import (
	"context"
	"errors"
	"sync"
)

// pngPixel is a 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

var ErrFakeFailure = errors.New("imagegen: fake failure")

// FakeCapability returns a fixed PNG, or Err when set. It records prompts
// so tests can assert what was requested.
type FakeCapability struct {
	Err   error
	Image *Image

	mu      sync.Mutex
	prompts []string
}

func NewFakeCapability() *FakeCapability { return &FakeCapability{} }

func (f *FakeCapability) Name() string { return "FakeImage" }

func (f *FakeCapability) RequestImage(ctx context.Context, prompt string, _ AspectRatio) (Image, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if f.Err != nil {
		return Image{}, f.Err
	}
	if f.Image != nil {
		return *f.Image, nil
	}
	return Image{Bytes: append([]byte(nil), pngPixel...), MIMEType: "image/png"}, nil
}

// Calls returns the number of requests made so far.
func (f *FakeCapability) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Prompts returns the prompts requested so far, in order.
func (f *FakeCapability) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
