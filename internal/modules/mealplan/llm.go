package mealplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sakhihealth/sakhi-backend/internal/clients/openai"
)

// InvokeOptions mirrors the knobs the planner cares about; implementations
// may ignore what they do not support.
type InvokeOptions struct {
	JSONMode   bool
	SchemaName string
	Schema     map[string]any
	MaxTokens  int
}

// LLMClient is the language-model surface the planner consumes. Invoke may
// return a bare string or a struct/map carrying a content field; callers
// unwrap via completionText.
type LLMClient interface {
	Invoke(ctx context.Context, system string, user string, opts InvokeOptions) (any, error)
}

// Completion is the object-shaped response some client implementations
// return instead of a bare string.
type Completion struct {
	Content string `json:"content"`
}

// completionText unwraps the response shapes LLM clients are known to
// produce.
func completionText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", fmt.Errorf("nil completion")
	case string:
		return t, nil
	case Completion:
		return t.Content, nil
	case *Completion:
		if t == nil {
			return "", fmt.Errorf("nil completion")
		}
		return t.Content, nil
	case map[string]any:
		if s, ok := t["content"].(string); ok {
			return s, nil
		}
		return "", fmt.Errorf("completion object missing content field")
	default:
		return "", fmt.Errorf("unsupported completion type %T", v)
	}
}

// openaiLLM adapts the OpenAI client to the planner's seam.
type openaiLLM struct {
	ai openai.Client
}

// NewOpenAILLM wraps an OpenAI client as an LLMClient.
func NewOpenAILLM(ai openai.Client) (LLMClient, error) {
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &openaiLLM{ai: ai}, nil
}

func (o *openaiLLM) Invoke(ctx context.Context, system string, user string, opts InvokeOptions) (any, error) {
	if opts.JSONMode && opts.Schema != nil && strings.TrimSpace(opts.SchemaName) != "" {
		obj, err := o.ai.GenerateJSON(ctx, system, user, opts.SchemaName, opts.Schema)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	}
	return o.ai.GenerateText(ctx, system, user)
}
