package tiktok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
	"github.com/kitbuilder587/multisearch/internal/textutil"
)

const searchPath = "/api/search/general"

// дискриминанты элементов общей выдачи
const (
	entryVideo    = 1
	entryUserList = 4
)

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

func (c *Client) Name() string { return domain.SourceTikTok }

type generalResponse struct {
	Data []rawEntry `json:"data"`
}

// rawEntry декодируется в два этапа: сначала type, затем полезная нагрузка по нему
type rawEntry struct {
	Type     int             `json:"type"`
	Item     json.RawMessage `json:"item"`
	UserList json.RawMessage `json:"user_list"`
}

func (r *generalResponse) Validate() error {
	if r.Data == nil {
		return errors.New("data missing")
	}
	return nil
}

type videoItem struct {
	ID         string `json:"id"`
	Desc       string `json:"desc"`
	CreateTime int64  `json:"createTime"`
	Video      struct {
		Cover    string `json:"cover"`
		Duration int64  `json:"duration"`
	} `json:"video"`
	Author struct {
		UniqueID    string `json:"uniqueId"`
		Nickname    string `json:"nickname"`
		AvatarThumb string `json:"avatarThumb"`
	} `json:"author"`
	Stats struct {
		PlayCount    int64 `json:"playCount"`
		DiggCount    int64 `json:"diggCount"`
		CommentCount int64 `json:"commentCount"`
		ShareCount   int64 `json:"shareCount"`
	} `json:"stats"`
}

type userListItem struct {
	UserInfo struct {
		UID         string `json:"uid"`
		UniqueID    string `json:"unique_id"`
		Nickname    string `json:"nickname"`
		AvatarThumb struct {
			URLList []string `json:"url_list"`
		} `json:"avatar_thumb"`
		FollowerCount int64 `json:"follower_count"`
	} `json:"user_info"`
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.TikTokEntry, error) {
	if !c.gateway.Enabled(c.host) {
		c.logger.Warn("tiktok source is not configured")
		return nil, search.ErrSourceUnavailable
	}

	params := url.Values{}
	params.Set("keyword", query)

	var resp generalResponse
	if err := c.gateway.Get(ctx, c.host, searchPath, params, &resp); err != nil {
		return nil, err
	}

	now := c.now()
	entries := make([]domain.TikTokEntry, 0, len(resp.Data))
	for i, raw := range resp.Data {
		switch raw.Type {
		case entryVideo:
			var item videoItem
			if err := json.Unmarshal(raw.Item, &item); err != nil || item.ID == "" {
				return nil, malformed(i, "video item", err)
			}
			entries = append(entries, domain.TikTokEntry{
				Type:  domain.TikTokVideoEntry,
				Video: toVideo(item, now),
			})

		case entryUserList:
			var list []userListItem
			if err := json.Unmarshal(raw.UserList, &list); err != nil {
				return nil, malformed(i, "user list", err)
			}
			entries = append(entries, domain.TikTokEntry{
				Type:  domain.TikTokUsersEntry,
				Users: toUsers(list),
			})

		default:
			c.logger.Debug("skip tiktok entry", zap.Int("type", raw.Type))
		}
	}
	return entries, nil
}

func toVideo(item videoItem, now time.Time) *domain.TikTokVideo {
	return &domain.TikTokVideo{
		ID:          item.ID,
		Description: item.Desc,
		URL:         "https://www.tiktok.com/@" + item.Author.UniqueID + "/video/" + item.ID,
		Thumbnail:   item.Video.Cover,
		Duration:    textutil.FormatSeconds(item.Video.Duration),
		CreatedAt:   textutil.RelativeTime(now, time.Unix(item.CreateTime, 0)),
		Author: domain.TikTokAuthor{
			Username: item.Author.UniqueID,
			Nickname: item.Author.Nickname,
			Avatar:   item.Author.AvatarThumb,
		},
		Stats: domain.TikTokStats{
			Plays:    textutil.FormatCount(item.Stats.PlayCount),
			Likes:    textutil.FormatCount(item.Stats.DiggCount),
			Comments: textutil.FormatCount(item.Stats.CommentCount),
			Shares:   textutil.FormatCount(item.Stats.ShareCount),
		},
	}
}

func toUsers(list []userListItem) []domain.TikTokUser {
	users := make([]domain.TikTokUser, 0, len(list))
	for _, it := range list {
		u := it.UserInfo
		var avatar string
		if len(u.AvatarThumb.URLList) > 0 {
			avatar = u.AvatarThumb.URLList[0]
		}
		users = append(users, domain.TikTokUser{
			ID:        u.UID,
			Username:  u.UniqueID,
			Nickname:  u.Nickname,
			Avatar:    avatar,
			Followers: textutil.FormatCount(u.FollowerCount),
			URL:       "https://www.tiktok.com/@" + u.UniqueID,
		})
	}
	return users
}

func malformed(i int, what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: entry %d: bad %s", search.ErrMalformedPayload, i, what)
	}
	return fmt.Errorf("%w: entry %d: bad %s: %v", search.ErrMalformedPayload, i, what, err)
}
