package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
)

const (
	searchPath = "/v1/search"

	maxUsers    = 5
	maxHashtags = 10
	maxPlaces   = 5
)

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

func (c *Client) Name() string { return domain.SourceInstagram }

type searchResponse struct {
	Users []struct {
		User struct {
			PK            json.Number `json:"pk"`
			Username      string      `json:"username"`
			FullName      string      `json:"full_name"`
			ProfilePicURL string      `json:"profile_pic_url"`
			IsVerified    bool        `json:"is_verified"`
		} `json:"user"`
	} `json:"users"`
	Hashtags []struct {
		Hashtag struct {
			ID         json.Number `json:"id"`
			Name       string      `json:"name"`
			MediaCount int64       `json:"media_count"`
		} `json:"hashtag"`
	} `json:"hashtags"`
	Places []struct {
		Place struct {
			Location struct {
				PK   json.Number `json:"pk"`
				Name string      `json:"name"`
			} `json:"location"`
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
		} `json:"place"`
	} `json:"places"`
}

func (r *searchResponse) Validate() error {
	if r.Users == nil && r.Hashtags == nil && r.Places == nil {
		return errors.New("users, hashtags and places all missing")
	}
	for i, u := range r.Users {
		if u.User.Username == "" {
			return errors.New("user " + strconv.Itoa(i) + ": username missing")
		}
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string) (domain.InstagramResult, error) {
	if !c.gateway.Enabled(c.host) {
		c.logger.Warn("instagram source is not configured")
		return domain.InstagramResult{}, search.ErrSourceUnavailable
	}

	params := url.Values{}
	params.Set("search_query", query)

	var resp searchResponse
	if err := c.gateway.Get(ctx, c.host, searchPath, params, &resp); err != nil {
		return domain.InstagramResult{}, err
	}

	result := domain.InstagramResult{
		Users:    make([]domain.InstagramUser, 0, min(len(resp.Users), maxUsers)),
		Hashtags: make([]domain.InstagramHashtag, 0, min(len(resp.Hashtags), maxHashtags)),
		Places:   make([]domain.InstagramPlace, 0, min(len(resp.Places), maxPlaces)),
	}

	for _, u := range resp.Users[:min(len(resp.Users), maxUsers)] {
		result.Users = append(result.Users, domain.InstagramUser{
			ID:            u.User.PK.String(),
			Username:      u.User.Username,
			FullName:      u.User.FullName,
			ProfilePicURL: u.User.ProfilePicURL,
			IsVerified:    u.User.IsVerified,
		})
	}
	for _, h := range resp.Hashtags[:min(len(resp.Hashtags), maxHashtags)] {
		result.Hashtags = append(result.Hashtags, domain.InstagramHashtag{
			ID:         h.Hashtag.ID.String(),
			Name:       h.Hashtag.Name,
			MediaCount: h.Hashtag.MediaCount,
		})
	}
	for _, p := range resp.Places[:min(len(resp.Places), maxPlaces)] {
		result.Places = append(result.Places, domain.InstagramPlace{
			ID:           p.Place.Location.PK.String(),
			Title:        p.Place.Title,
			Subtitle:     p.Place.Subtitle,
			LocationName: p.Place.Location.Name,
		})
	}

	return result, nil
}
