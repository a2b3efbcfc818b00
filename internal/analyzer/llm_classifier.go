package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"deckgen/internal/deck"
	"deckgen/internal/llm"
)

// LLMClassifier asks a language model for the signals. The analyzer falls
// back to RuleClassifier when it fails.
type LLMClassifier struct {
	LLM llm.LLMClient
}

const classifyPrompt = `You are a presentation strategist. Classify the description of a slide deck. Return JSON following schema:
{
  "topic":"string",
  "depth":"low|medium|high",
  "tone":"general|executive|technical|casual",
  "audience":"mixed|technical|executive",
  "content_type":"general|feature_launch|technical|business|tutorial|vision",
  "has_code":false
}
Use "general" tone when no register clearly dominates.`

func (c *LLMClassifier) Classify(ctx context.Context, text string) (deck.Signals, error) {
	if c == nil || c.LLM == nil {
		return deck.Signals{}, fmt.Errorf("analyzer: llm classifier not configured")
	}
	ctx = llm.WithPhase(ctx, llm.PhaseClassify)
	raw, err := c.LLM.GenerateJSON(ctx, classifyPrompt, map[string]any{"description": text})
	if err != nil {
		return deck.Signals{}, fmt.Errorf("analyzer: classify: %w", err)
	}
	var out deck.Signals
	if err := json.Unmarshal(raw, &out); err != nil {
		return deck.Signals{}, fmt.Errorf("analyzer: decode classification: %w", err)
	}
	return out.Normalize(), nil
}
