package invoker

// #region imports
import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// #endregion

// #region config

// OpenAIConfig configures an OpenAI-compatible chat completions endpoint.
// The backend id of each request is sent as the model name.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Timeout time.Duration
}

// #endregion

// #region client

// OpenAI invokes backends through an OpenAI-compatible API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI builds the client. A zero Timeout means no client-side timeout.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAI{client: openai.NewClientWithConfig(oc)}
}

// #endregion

// #region invoke

// Invoke sends one system+user chat completion to req.Backend.
func (o *OpenAI) Invoke(ctx context.Context, req Request) (Result, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Backend,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserText},
		},
		MaxTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion %s: %w", req.Backend, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Result{}, fmt.Errorf("chat completion %s: %w", req.Backend, ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content
	tokens := resp.Usage.CompletionTokens
	if tokens == 0 {
		tokens = estimateTokens(text)
	}
	return Result{Text: text, OutputTokens: tokens}, nil
}

// #endregion
