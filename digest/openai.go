package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"housing-agent/models"
	"housing-agent/utils"
)

const defaultTemperature = 0.3

// OpenAIOptions configures the OpenAI summarizer. BaseURL is only set for
// compatible gateways and tests.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAI writes the digest with a chat completion.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *utils.Logger
}

func NewOpenAI(opts OpenAIOptions, logger *utils.Logger) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Summarize implements services.Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, listings []models.NormalizedListing, rules models.DigestRules) (string, error) {
	user, err := userPrompt(listings)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: defaultTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(rules)},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai: %s (status %d): %w", apiErr.Type, apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty digest")
	}

	o.logger.Info("[digest] %s wrote %d chars in %v (%d tokens)",
		o.model, len(text), time.Since(start).Round(time.Millisecond), resp.Usage.TotalTokens)
	return text, nil
}
