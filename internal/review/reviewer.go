package review

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds reviewer construction settings.
type Config struct {
	APIKey  string
	BaseURL string // empty uses the default OpenAI endpoint
	Model   string
	Prompts PromptConfig
}

// Reviewer evaluates chat messages through an OpenAI-compatible API.
type Reviewer struct {
	client *openai.Client
	model  string
	system string
	log    zerolog.Logger
}

// New creates a reviewer. Any OpenAI-compatible endpoint works via
// Config.BaseURL.
func New(cfg Config, log zerolog.Logger) *Reviewer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Reviewer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		system: buildSystemPrompt(cfg.Prompts),
		log:    log,
	}
}

// Evaluate sends one message to the model and parses its verdict.
func (r *Reviewer) Evaluate(ctx context.Context, userName, text string) (*Evaluation, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.system},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(userName, text)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	ev, err := ParseEvaluation(raw)
	if err != nil {
		r.log.Warn().Err(err).Str("raw_response", raw).Msg("model response did not match schema")
		return nil, err
	}
	return ev, nil
}
