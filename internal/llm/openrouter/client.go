package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/llm"
)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	// MaxRetries - повторы на 429 и 5xx
	MaxRetries int
}

type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxRetries  int
	client      *http.Client
	logger      *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-chat"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type openRouterResponse struct {
	llm.ChatResponse
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	req := llm.NewChatRequest(c.model, system, prompt).WithTemperature(c.temperature)

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var content string
	op := func() error {
		out, err := c.complete(ctx, body)
		if err != nil {
			if retryable(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		content = out
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("openrouter retry", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/kitbuilder587/multisearch")
	httpReq.Header.Set("X-Title", "Multisearch")

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		return "", err
	}

	if statusCode != http.StatusOK {
		return "", llm.HandleHTTPError(statusCode, respBody, c.logger, "openrouter")
	}

	var chatResp openRouterResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", llm.ErrRequestFailed, chatResp.Error.Message)
	}

	return llm.ExtractContent(&chatResp.ChatResponse)
}

// retryable: лимит и ошибки сервера/транспорта, но не авторизация и не пустой ответ
func retryable(err error) bool {
	if errors.Is(err, llm.ErrAuthFailed) || errors.Is(err, llm.ErrEmptyResponse) {
		return false
	}
	return errors.Is(err, llm.ErrRateLimit) || errors.Is(err, llm.ErrRequestFailed)
}

var _ llm.Client = (*Client)(nil)
