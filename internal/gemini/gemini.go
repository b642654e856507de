package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/afeedhshaji/gemini-dashboard/internal/log"
)

// Models is the part of the GenAI models service the client uses.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client wraps Gemini API config
type Client struct {
	models  Models
	Timeout time.Duration
}

// New creates a Gemini client for the Gemini Developer API. A zero timeout
// leaves the call bounded only by the caller's context.
func New(ctx context.Context, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return NewWithModels(c.Models, timeout), nil
}

// NewWithModels builds a client over an existing models service.
func NewWithModels(models Models, timeout time.Duration) *Client {
	return &Client{models: models, Timeout: timeout}
}

// Generate sends prompt to model and returns the response text. Provider
// errors are returned unwrapped so their message reaches the caller as is.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	log.Debugf("[gemini] model=%s prompt=%q", model, prompt)
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	log.Debugf("[gemini] generated %d bytes", len(text))
	return text, nil
}

// responseText joins the text parts of the first candidate, skipping
// thought parts. A blocked prompt, a candidate without content, or a
// candidate stopped early without producing text is an error. An empty
// answer that finished normally is not.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", blockedError(resp)
	}
	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 && cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
		msg := fmt.Sprintf("generation stopped: %s", cand.FinishReason)
		if cand.FinishMessage != "" {
			msg += ": " + cand.FinishMessage
		}
		return "", errors.New(msg)
	}
	if cand.Content == nil {
		return "", errors.New("gemini returned a candidate without content")
	}
	return sb.String(), nil
}

func blockedError(resp *genai.GenerateContentResponse) error {
	if resp == nil || resp.PromptFeedback == nil || resp.PromptFeedback.BlockReason == "" {
		return errors.New("gemini returned no candidates")
	}
	fb := resp.PromptFeedback
	msg := fmt.Sprintf("prompt blocked: %s", fb.BlockReason)
	if fb.BlockReasonMessage != "" {
		msg += ": " + fb.BlockReasonMessage
	}
	return errors.New(msg)
}
