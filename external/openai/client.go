package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/external/provider"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	providerName   = "openai"
	DefaultModel   = "gpt-4o-2024-08-06"
	defaultTimeout = 60 * time.Second
)

type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client forces a single function call on a chat completion and returns the
// call's raw JSON arguments.
type Client struct {
	client  *goopenai.Client
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

var _ usecase.ModelClient = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	config := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	config.HTTPClient = httpClient

	return &Client{
		client:  goopenai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, req usecase.StructuredRequest) ([]byte, error) {
	const op = "chat_completion"
	if strings.TrimSpace(req.FunctionName) == "" {
		return nil, provider.NewFetchError(providerName, op, provider.ErrMalformed, fmt.Errorf("function name is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		Tools: []goopenai.Tool{{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        req.FunctionName,
				Description: req.Description,
				Strict:      true,
				Parameters:  req.Schema,
			},
		}},
		ToolChoice: goopenai.ToolChoice{
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.ToolFunction{Name: req.FunctionName},
		},
	})
	if err != nil {
		kind := classifyAPIError(err)
		c.logger.WarnContext(ctx, "model request failed", "model", c.model, "kind", provider.KindName(kind), "error", err)
		return nil, provider.NewFetchError(providerName, op, kind, err)
	}

	args, err := functionArguments(resp, req.FunctionName)
	if err != nil {
		return nil, provider.NewFetchError(providerName, op, provider.ErrMalformed, err)
	}

	c.logger.DebugContext(ctx, "model request completed",
		"model", c.model,
		"duration", time.Since(started),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return []byte(args), nil
}

func functionArguments(resp goopenai.ChatCompletionResponse, name string) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name != name {
			continue
		}
		if strings.TrimSpace(call.Function.Arguments) == "" {
			return "", fmt.Errorf("function %s returned empty arguments", name)
		}
		return call.Function.Arguments, nil
	}
	return "", fmt.Errorf("no %s function call in response (finish_reason=%s)", name, resp.Choices[0].FinishReason)
}

func classifyAPIError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return provider.KindForStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return provider.KindForStatus(reqErr.HTTPStatusCode)
	}
	return provider.Classify(err)
}
