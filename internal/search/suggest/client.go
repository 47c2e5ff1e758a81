// Package suggest - подсказки автодополнения Google для трендов
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/search"
)

type Config struct {
	BaseURL string
}

type Client struct {
	baseURL string
	fetcher *search.Fetcher
	logger  *zap.Logger
}

func New(cfg Config, fetcher *search.Fetcher, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://suggestqueries.google.com"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		fetcher: fetcher,
		logger:  logger,
	}
}

// ответ вида ["query", ["s1", "s2", ...], ...]
type suggestResponse []json.RawMessage

func (r *suggestResponse) Validate() error {
	if len(*r) < 2 {
		return errors.New("suggestion list missing")
	}
	return nil
}

func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("q", query)

	var resp suggestResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.baseURL+"/complete/search?"+params.Encode(), nil), &resp); err != nil {
		return nil, err
	}

	var suggestions []string
	if err := json.Unmarshal(resp[1], &suggestions); err != nil {
		return nil, fmt.Errorf("%w: suggestions: %v", search.ErrMalformedPayload, err)
	}

	c.logger.Debug("suggestions fetched", zap.Int("count", len(suggestions)))
	return suggestions, nil
}
