package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/afeedhshaji/gemini-dashboard/internal/log"
)

// DefaultBaseURL is the OpenAI-compatible API root of OpenRouter.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Client wraps OpenRouter API config
type Client struct {
	client  openai.Client
	Timeout time.Duration
}

// New creates a new OpenRouter client. The SDK's automatic retries are
// disabled: a failed call is reported once, as is.
func New(apiKey, baseURL string, timeout time.Duration, opts ...option.RequestOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	clientOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{}),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	clientOpts = append(clientOpts, opts...)
	return &Client{client: openai.NewClient(clientOpts...), Timeout: timeout}
}

// Generate sends prompt to the given OpenRouter model and returns the reply.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	log.Debugf("[openrouter] calling model %q", model)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.RawJSON()
			}
			return "", fmt.Errorf("openrouter error %d: %s", apiErr.StatusCode, msg)
		}
		return "", err
	}
	if len(completion.Choices) == 0 {
		if msg := inlineError(completion.RawJSON()); msg != "" {
			return "", errors.New(msg)
		}
		return "", errors.New("no response from openrouter")
	}
	return completion.Choices[0].Message.Content, nil
}

// inlineError extracts the error object OpenRouter may return with a 200
// status instead of choices.
func inlineError(raw string) string {
	var body struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body.Error == nil {
		return ""
	}
	return body.Error.Message
}
