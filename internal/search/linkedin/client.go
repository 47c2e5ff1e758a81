package linkedin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
)

const searchPath = "/search-posts"

type Config struct {
	Host string
}

type Client struct {
	host    string
	gateway *rapidapi.Gateway
	logger  *zap.Logger
}

func New(cfg Config, gateway *rapidapi.Gateway, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{host: cfg.Host, gateway: gateway, logger: logger}
}

func (c *Client) Name() string { return domain.SourceLinkedIn }

type searchRequest struct {
	Keyword    string `json:"keyword"`
	SortBy     string `json:"sortBy"`
	DatePosted string `json:"datePosted"`
	Page       int    `json:"page"`
}

type searchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Posts []post `json:"posts"`
	} `json:"data"`
}

type post struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	PostedAt string `json:"postedAt"`
	Image    string `json:"image"`
	Author   struct {
		Name           string `json:"name"`
		Headline       string `json:"headline"`
		SubDescription string `json:"subDescription"`
		Avatar         string `json:"avatar"`
	} `json:"author"`
	Stats struct {
		Likes    int64 `json:"likes"`
		Comments int64 `json:"comments"`
		Shares   int64 `json:"shares"`
	} `json:"stats"`
}

func (r *searchResponse) Validate() error {
	if !r.Success {
		return errors.New("upstream reported failure: " + r.Message)
	}
	if r.Data == nil {
		return errors.New("data missing")
	}
	for i, p := range r.Data.Posts {
		if p.URL == "" {
			return errors.New("post " + strconv.Itoa(i) + ": url missing")
		}
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.LinkedInPost, error) {
	if !c.gateway.Enabled(c.host) {
		c.logger.Warn("linkedin source is not configured")
		return nil, search.ErrSourceUnavailable
	}

	req := searchRequest{
		Keyword: query,
		SortBy:  "relevance",
		Page:    1,
	}

	var resp searchResponse
	if err := c.gateway.Post(ctx, c.host, searchPath, req, &resp); err != nil {
		return nil, err
	}

	posts := make([]domain.LinkedInPost, 0, len(resp.Data.Posts))
	for _, p := range resp.Data.Posts {
		posts = append(posts, domain.LinkedInPost{
			URL:      p.URL,
			Content:  p.Text,
			Image:    optional(p.Image),
			PostedAt: p.PostedAt,
			Author: domain.LinkedInAuthor{
				Name:           p.Author.Name,
				Description:    p.Author.Headline,
				SubDescription: p.Author.SubDescription,
				Avatar:         optional(p.Author.Avatar),
			},
			Stats: domain.LinkedInStats{
				Likes:    p.Stats.Likes,
				Comments: p.Stats.Comments,
				Shares:   p.Stats.Shares,
			},
		})
	}
	return posts, nil
}

// optional: апстрим пишет "na" вместо отсутствующей картинки
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "na") {
		return nil
	}
	return &s
}
