package rapidapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kitbuilder587/multisearch/internal/search"
)

const (
	headerKey  = "x-rapidapi-key"
	headerHost = "x-rapidapi-host"
)

type Config struct {
	Key   string
	RPS   float64
	Burst int
	// BaseURL подменяет https://<host> (тесты, прокси)
	BaseURL string
}

// Gateway - общий вход для платформ, доступных через RapidAPI: один ключ,
// заголовки key/host и отдельный лимитер на каждый хост.
type Gateway struct {
	key     string
	baseURL string
	limit   rate.Limit
	burst   int
	fetcher *search.Fetcher
	logger  *zap.Logger

	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

func New(cfg Config, fetcher *search.Fetcher, logger *zap.Logger) *Gateway {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		key:      cfg.Key,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		limit:    limit,
		burst:    cfg.Burst,
		fetcher:  fetcher,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Enabled - есть ключ и хост платформы
func (g *Gateway) Enabled(host string) bool {
	return g != nil && g.key != "" && host != ""
}

func (g *Gateway) Get(ctx context.Context, host, path string, params url.Values, out any) error {
	rawURL := g.endpoint(host, path)
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	return g.do(ctx, host, search.Get(rawURL, g.headers(host)), out)
}

func (g *Gateway) Post(ctx context.Context, host, path string, body, out any) error {
	return g.do(ctx, host, search.PostJSON(g.endpoint(host, path), g.headers(host), body), out)
}

func (g *Gateway) do(ctx context.Context, host string, build search.RequestFunc, out any) error {
	if !g.Enabled(host) {
		return search.ErrSourceUnavailable
	}

	if err := g.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rapidapi pacing %s: %w", host, err)
	}
	return g.fetcher.DoJSON(ctx, build, out)
}

func (g *Gateway) limiter(host string) *rate.Limiter {
	g.mu.RLock()
	l, ok := g.limiters[host]
	g.mu.RUnlock()
	if ok {
		return l
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok = g.limiters[host]; !ok {
		l = rate.NewLimiter(g.limit, g.burst)
		g.limiters[host] = l
	}
	return l
}

func (g *Gateway) endpoint(host, path string) string {
	base := g.baseURL
	if base == "" {
		base = "https://" + host
	}
	return base + path
}

func (g *Gateway) headers(host string) map[string]string {
	return map[string]string{
		headerKey:  g.key,
		headerHost: host,
	}
}
