package reddit

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const (
	DefaultUserAgent = "web:multi-search-app:v1.0.0 (by /u/multi-search-app)"
	maxAwards        = 3
)

// значения thumbnail, которые reddit отдает вместо картинки
var thumbnailSentinels = map[string]bool{
	"self":    true,
	"default": true,
	"nsfw":    true,
	"spoiler": true,
}

var gildingNames = []struct {
	key  string
	name string
}{
	{"gid_1", "Silver"},
	{"gid_2", "Gold"},
	{"gid_3", "Platinum"},
}

type Config struct {
	BaseURL    string
	UserAgent  string
	MaxResults int
	Now        func() time.Time
}

type Client struct {
	baseURL    string
	userAgent  string
	maxResults int
	fetcher    *search.Fetcher
	logger     *zap.Logger
	now        func() time.Time
}

func New(cfg Config, fetcher *search.Fetcher, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.reddit.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
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
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		fetcher:    fetcher,
		logger:     logger,
		now:        cfg.Now,
	}
}

func (c *Client) Name() string { return domain.SourceReddit }

type listing struct {
	Data *struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title        string         `json:"title"`
	Selftext     string         `json:"selftext"`
	URL          string         `json:"url"`
	Permalink    string         `json:"permalink"`
	Subreddit    string         `json:"subreddit"`
	Author       string         `json:"author"`
	Score        int64          `json:"score"`
	NumComments  int64          `json:"num_comments"`
	Thumbnail    string         `json:"thumbnail"`
	IsSelf       bool           `json:"is_self"`
	CreatedUTC   float64        `json:"created_utc"`
	Gildings     map[string]int `json:"gildings"`
	AllAwardings []struct {
		Name string `json:"name"`
	} `json:"all_awardings"`
}

func (l *listing) Validate() error {
	if l.Data == nil {
		return errors.New("data missing")
	}
	for i, ch := range l.Data.Children {
		if ch.Data.Permalink == "" {
			return errors.New("child " + strconv.Itoa(i) + ": permalink missing")
		}
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.RedditResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.maxResults))
	params.Set("sort", "relevance")

	headers := map[string]string{"User-Agent": c.userAgent}

	var resp listing
	if err := c.fetcher.DoJSON(ctx, search.Get(c.baseURL+"/search.json?"+params.Encode(), headers), &resp); err != nil {
		return nil, err
	}

	now := c.now()
	results := make([]domain.RedditResult, 0, len(resp.Data.Children))
	for _, ch := range resp.Data.Children {
		results = append(results, c.toResult(ch.Data, now))
	}
	return results, nil
}

func (c *Client) toResult(p post, now time.Time) domain.RedditResult {
	content := p.Selftext
	if content == "" {
		content = p.URL
	}

	var thumbnail string
	if p.Thumbnail != "" && !thumbnailSentinels[p.Thumbnail] {
		thumbnail = p.Thumbnail
	}

	return domain.RedditResult{
		Title:        p.Title,
		Content:      content,
		URL:          c.baseURL + p.Permalink,
		Subreddit:    p.Subreddit,
		Author:       p.Author,
		Upvotes:      p.Score,
		CommentCount: p.NumComments,
		Awards:       collectAwards(p),
		Thumbnail:    thumbnail,
		IsTextPost:   p.IsSelf,
		CreatedAt:    textutil.RelativeTime(now, epochToTime(p.CreatedUTC)),
	}
}

// collectAwards: сначала фиксированные gildings, потом all_awardings без дублей, не больше трех
func collectAwards(p post) []string {
	awards := make([]string, 0, maxAwards)
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		awards = append(awards, name)
	}

	for _, g := range gildingNames {
		if p.Gildings[g.key] > 0 {
			add(g.name)
		}
	}
	for _, a := range p.AllAwardings {
		add(a.Name)
	}

	if len(awards) > maxAwards {
		awards = awards[:maxAwards]
	}
	return awards
}

func epochToTime(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9))
}
