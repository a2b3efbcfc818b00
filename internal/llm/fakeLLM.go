package llm

import (
	"context"
	"encoding/json"
)

// PhaseClassify is the phase tag the analyzer's classifier runs under.
const PhaseClassify = "classify"

// FakeClient returns deterministic, minimal JSON payloads per phase for offline/testing.
type FakeClient struct {
	// Responses overrides the canned payload for a phase.
	Responses map[string]any
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	var obj any
	if v, ok := f.Responses[phase]; ok {
		obj = v
	} else {
		switch phase {
		case PhaseClassify:
			obj = map[string]any{
				"topic":        "fake topic",
				"depth":        "low",
				"tone":         "general",
				"audience":     "mixed",
				"content_type": "general",
				"has_code":     false,
			}
		default:
			obj = map[string]any{}
		}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
