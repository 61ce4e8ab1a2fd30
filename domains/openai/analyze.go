// Package openai implements the analysis model client on top of the
// OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomantics/repolens/config"
	"github.com/gomantics/repolens/domains/analysis"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `You are a senior software engineer reviewing a repository.
You receive one chunk of the repository's concatenated source files and report
concrete findings. Respond with ONLY a JSON array of objects, each with:
"title" (short), "description" (specific, actionable), "severity" (one of
"low", "medium", "high") and "category" (one of "bug", "security",
"performance", "architecture", "best_practice", "code_quality").
Report at most 10 findings per chunk. Do not wrap the JSON in markdown fences.`

// Client calls the chat completions API once per chunk.
type Client struct {
	apiKey          string
	model           string
	maxOutputTokens int64
	temperature     float64
}

// NewClient builds a client from config. A missing API key is a
// configuration error and unrecoverable.
func NewClient() (*Client, error) {
	apiKey := config.Openai.ApiKey()
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}

	return &Client{
		apiKey:          apiKey,
		model:           config.Openai.Model(),
		maxOutputTokens: config.Openai.MaxOutputTokens(),
		temperature:     config.Openai.Temperature(),
	}, nil
}

// AnalyzeChunk implements analysis.ModelClient.
func (c *Client) AnalyzeChunk(ctx context.Context, req analysis.ChunkRequest) (string, error) {
	client := openai.NewClient(option.WithAPIKey(c.apiKey))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
		MaxTokens:   openai.Int(c.maxOutputTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func userPrompt(req analysis.ChunkRequest) string {
	return fmt.Sprintf(
		"This is chunk %d of %d of the repository content.\n\n%s",
		req.Index+1, req.Total, req.Content,
	)
}

// classifyError maps API failures onto the orchestrator's error taxonomy:
// 401 is unrecoverable, 429 is retryable, everything else is a plain model
// error.
func classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401:
			return fmt.Errorf("%w: %v", analysis.ErrAuth, err)
		case 429:
			return fmt.Errorf("%w: %v", analysis.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("model request failed: %w", err)
}
