package x

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const searchPath = "/search.php"

type Config struct {
	Host string
	Now  func() time.Time
}

type Client struct {
	host    string
	gateway *rapidapi.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func New(cfg Config, gateway *rapidapi.Gateway, logger *zap.Logger) *Client {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{host: cfg.Host, gateway: gateway, logger: logger, now: cfg.Now}
}

func (c *Client) Name() string { return domain.SourceX }

type timelineResponse struct {
	Timeline []timelineItem `json:"timeline"`
}

type timelineItem struct {
	TweetID   string  `json:"tweet_id"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
	Source    string  `json:"source"`
	Replies   int64   `json:"replies"`
	Retweets  int64   `json:"retweets"`
	Favorites int64   `json:"favorites"`
	Views     flexInt `json:"views"`
	UserInfo  struct {
		Name            string `json:"name"`
		ScreenName      string `json:"screen_name"`
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"user_info"`
}

func (r *timelineResponse) Validate() error {
	if r.Timeline == nil {
		return errors.New("timeline missing")
	}
	for i, it := range r.Timeline {
		if it.TweetID == "" || it.UserInfo.ScreenName == "" {
			return errors.New("timeline item " + strconv.Itoa(i) + ": id or author missing")
		}
	}
	return nil
}

// flexInt: просмотры приходят то числом, то строкой
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Tweet, error) {
	if !c.gateway.Enabled(c.host) {
		c.logger.Warn("x source is not configured")
		return nil, search.ErrSourceUnavailable
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("search_type", "Top")

	var resp timelineResponse
	if err := c.gateway.Get(ctx, c.host, searchPath, params, &resp); err != nil {
		return nil, err
	}

	now := c.now()
	tweets := make([]domain.Tweet, 0, len(resp.Timeline))
	for _, it := range resp.Timeline {
		tweets = append(tweets, domain.Tweet{
			ID:                 it.TweetID,
			Text:               it.Text,
			AuthorName:         it.UserInfo.Name,
			AuthorUsername:     it.UserInfo.ScreenName,
			AuthorProfileImage: it.UserInfo.ProfileImageURL,
			CreatedAt:          createdAt(now, it.CreatedAt),
			URL:                "https://x.com/" + it.UserInfo.ScreenName + "/status/" + it.TweetID,
			Source:             it.Source,
			Replies:            it.Replies,
			Retweets:           it.Retweets,
			Favorites:          it.Favorites,
			Views:              int64(it.Views),
		})
	}
	return tweets, nil
}

// createdAt: формат твиттера - RubyDate, нераспознанная дата отдается как есть
func createdAt(now time.Time, raw string) string {
	t, err := time.Parse(time.RubyDate, raw)
	if err != nil {
		return raw
	}
	return textutil.RelativeTime(now, t)
}
