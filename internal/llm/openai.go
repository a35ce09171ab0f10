package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint, such as
// api.openai.com or a local Ollama server.
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
}

const (
	// Local models can take minutes on long documents
	DefaultTimeout = 5 * time.Minute
)

// NewOpenAIClient builds a client for baseURL. Retries are disabled; a failed
// call surfaces immediately as an UpstreamError.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		client:  &cli,
		timeout: timeout,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, s Settings) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if s.Model == "" {
		return "", fmt.Errorf("model required")
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqOpts []option.RequestOption
	if s.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(s.APIKey))
	}
	if s.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.BaseURL))
	}

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.Model),
		Messages:    buildMessages(prompt),
		Temperature: openai.Float(s.Temperature),
	}, reqOpts...)
	if err != nil {
		return "", upstream(s.Model, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &UpstreamError{Model: s.Model, Err: ErrEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages sends the rendered prompt as a single user turn; the
// instructions live in the prompt itself.
func buildMessages(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(prompt),
				},
			},
		},
	}
}

func upstream(model string, err error) error {
	upErr := &UpstreamError{Model: model, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		upErr.StatusCode = apiErr.StatusCode
	}
	return upErr
}
