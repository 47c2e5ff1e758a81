package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/cache"
	"github.com/kitbuilder587/multisearch/internal/cache/memory"
	"github.com/kitbuilder587/multisearch/internal/cache/redis"
	"github.com/kitbuilder587/multisearch/internal/config"
	"github.com/kitbuilder587/multisearch/internal/fallback"
	"github.com/kitbuilder587/multisearch/internal/llm"
	llmmock "github.com/kitbuilder587/multisearch/internal/llm/mock"
	"github.com/kitbuilder587/multisearch/internal/llm/openrouter"
	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/repository"
	"github.com/kitbuilder587/multisearch/internal/repository/postgres"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/google"
	"github.com/kitbuilder587/multisearch/internal/search/instagram"
	"github.com/kitbuilder587/multisearch/internal/search/linkedin"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
	"github.com/kitbuilder587/multisearch/internal/search/reddit"
	"github.com/kitbuilder587/multisearch/internal/search/suggest"
	"github.com/kitbuilder587/multisearch/internal/search/tiktok"
	"github.com/kitbuilder587/multisearch/internal/search/x"
	"github.com/kitbuilder587/multisearch/internal/search/youtube"
	"github.com/kitbuilder587/multisearch/internal/service"
)

const (
	l1CacheTTL     = time.Minute
	llmTimeout     = 60 * time.Second
	llmMaxRetries  = 2
	userAgent      = "multisearch/1.0"
	cacheSweepTick = time.Minute
)

// app - собранные сервисы и то, что нужно закрыть на выходе
type app struct {
	metrics  *metrics.Metrics
	search   *service.SearchService
	trending *service.TrendingService
	content  *service.ContentService

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{metrics: metrics.New()}

	fetcher := search.NewFetcher(search.FetcherConfig{
		Timeout:    cfg.Sources.Timeout,
		MaxRetries: cfg.Sources.MaxRetries,
		UserAgent:  userAgent,
	}, logger)
	gateway := rapidapi.New(rapidapi.Config{
		Key: cfg.Sources.RapidAPI.Key,
		RPS: cfg.Sources.RapidAPI.RPS,
	}, fetcher, logger)

	yt := youtube.New(youtube.Config{APIKey: cfg.Sources.YouTubeAPIKey}, fetcher, logger)
	sources := service.Sources{
		YouTube:   yt,
		Reddit:    reddit.New(reddit.Config{UserAgent: cfg.Sources.RedditAgent}, fetcher, logger),
		Google:    google.New(google.Config{NewsAPIKey: cfg.Sources.NewsAPIKey}, fetcher, logger),
		X:         x.New(x.Config{Host: cfg.Sources.RapidAPI.XHost}, gateway, logger),
		Instagram: instagram.New(instagram.Config{Host: cfg.Sources.RapidAPI.InstagramHost}, gateway, logger),
		TikTok:    tiktok.New(tiktok.Config{Host: cfg.Sources.RapidAPI.TikTokHost}, gateway, logger),
		LinkedIn:  linkedin.New(linkedin.Config{Host: cfg.Sources.RapidAPI.LinkedInHost}, gateway, logger),
	}

	var history repository.HistoryRepository
	if cfg.HistoryEnabled() {
		db, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect history db: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		repo := postgres.NewHistoryRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}
		history = repo
		logger.Info("search history enabled")
	}

	a.search = service.NewSearchService(service.SearchServiceDeps{
		Sources:  sources,
		Fallback: fallback.New(),
		Cache:    a.newCache(ctx, cfg, logger),
		History:  history,
		Logger:   logger,
		Metrics:  a.metrics,
		Config: service.SearchConfig{
			SourceTimeout:   cfg.Sources.Timeout,
			CacheTTL:        cfg.Cache.TTL,
			BreakerFailures: cfg.Sources.BreakerFailures,
			BreakerCooldown: cfg.Sources.BreakerCooldown,
		},
	})

	a.trending = service.NewTrendingService(service.TrendingServiceDeps{
		Google:  suggest.New(suggest.Config{}, fetcher, logger),
		YouTube: yt,
		Logger:  logger,
		Metrics: a.metrics,
		Timeout: cfg.Sources.Timeout,
	})

	a.content = service.NewContentService(service.ContentServiceDeps{
		LLM:      newLLM(cfg, logger),
		Provider: cfg.LLM.Provider,
		Logger:   logger,
		Metrics:  a.metrics,
		Timeout:  llmTimeout,
	})

	return a, nil
}

// newCache: память всегда, redis вторым уровнем если доступен
func (a *app) newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.Cache.TTL <= 0 {
		return cache.Nop{}
	}

	mem := memory.NewWithContext(ctx, memory.Options{
		SweepInterval: cacheSweepTick,
		MaxEntries:    cfg.Cache.MaxEntries,
	})
	a.closers = append(a.closers, mem.Stop)

	if cfg.Redis.URL == "" {
		return mem
	}

	rc, err := redis.Connect(ctx, cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache only", zap.Error(err))
		return mem
	}
	a.closers = append(a.closers, func() {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	})
	return cache.NewTiered(mem, rc, l1CacheTTL)
}

func newLLM(cfg *config.Config, logger *zap.Logger) llm.Client {
	if cfg.LLM.Provider == "openrouter" {
		return openrouter.New(openrouter.Config{
			APIKey:     cfg.LLM.OpenRouter.APIKey,
			Model:      cfg.LLM.OpenRouter.Model,
			BaseURL:    cfg.LLM.OpenRouter.BaseURL,
			Timeout:    llmTimeout,
			MaxRetries: llmMaxRetries,
		}, logger)
	}
	return llmmock.New().WithResponder(service.StubResponder)
}

// Close дожидается фоновых записей истории и освобождает ресурсы в обратном порядке
func (a *app) Close() {
	if a.search != nil {
		a.search.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
