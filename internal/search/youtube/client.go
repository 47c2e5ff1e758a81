package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const channelIconPlaceholder = "/placeholder.svg?height=32&width=32"

type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Now        func() time.Time
}

type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	fetcher    *search.Fetcher
	logger     *zap.Logger
	now        func() time.Time
}

func New(cfg Config, fetcher *search.Fetcher, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
		fetcher:    fetcher,
		logger:     logger,
		now:        cfg.Now,
	}
}

func (c *Client) Name() string { return domain.SourceYouTube }

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
}

func (r *searchResponse) Validate() error {
	if r.Items == nil {
		return errors.New("items missing")
	}
	return nil
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

func (r *videosResponse) Validate() error {
	if r.Items == nil {
		return errors.New("items missing")
	}
	for i, it := range r.Items {
		if it.ID == "" {
			return errors.New("item " + strconv.Itoa(i) + ": id missing")
		}
	}
	return nil
}

// Search - двухшаговый запрос: search отдает id, videos по пачке id - статистику и длительность
func (c *Client) Search(ctx context.Context, query string) ([]domain.VideoResult, error) {
	if c.apiKey == "" {
		c.logger.Warn("youtube api key is missing")
		return nil, search.ErrSourceUnavailable
	}

	ids, err := c.searchIDs(ctx, query, c.maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.VideoResult{}, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.apiKey)

	var details videosResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.baseURL+"/videos?"+params.Encode(), nil), &details); err != nil {
		return nil, err
	}

	now := c.now()
	results := make([]domain.VideoResult, 0, len(details.Items))
	for _, it := range details.Items {
		views, _ := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		results = append(results, domain.VideoResult{
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			URL:         "https://www.youtube.com/watch?v=" + it.ID,
			Thumbnail:   it.Snippet.Thumbnails.High.URL,
			ChannelName: it.Snippet.ChannelTitle,
			ChannelIcon: channelIconPlaceholder,
			ViewCount:   textutil.FormatCount(views) + " views",
			PublishedAt: textutil.RelativeTime(now, it.Snippet.PublishedAt),
			Duration:    textutil.ParseDuration(it.ContentDetails.Duration),
			VideoID:     it.ID,
		})
	}

	return results, nil
}

// Titles - заголовки видео по запросу, используется для трендовых подсказок
func (c *Client) Titles(ctx context.Context, query string, limit int) ([]string, error) {
	if c.apiKey == "" {
		return nil, search.ErrSourceUnavailable
	}

	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.fetcher.DoJSON(ctx, search.Get(c.searchURL(query, limit), nil), &resp); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		titles = append(titles, it.Snippet.Title)
	}
	return titles, nil
}

func (c *Client) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	var resp searchResponse
	if err := c.fetcher.DoJSON(ctx, search.Get(c.searchURL(query, limit), nil), &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) searchURL(query string, limit int) string {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("key", c.apiKey)
	return c.baseURL + "/search?" + params.Encode()
}
