package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/ratelimit"
)

type Searcher interface {
	Search(ctx context.Context, query string) (*domain.AggregateResult, error)
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	BreakerStates() map[string]string
}

type Trender interface {
	Suggest(ctx context.Context, query, platform string) (map[string]domain.Suggestions, error)
}

type Generator interface {
	Generate(ctx context.Context, req domain.ContentRequest) (any, error)
}

type Deps struct {
	Search   Searcher
	Trending Trender
	Content  Generator
	// Limiter nil - без ограничения частоты
	Limiter *ratelimit.Limiter
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(deps.Logger)

	e.Use(RequestID())
	e.Use(RequestLogger(deps.Logger))
	e.Use(middleware.Recover())

	h := &Handler{
		search:   deps.Search,
		trending: deps.Trending,
		content:  deps.Content,
		logger:   deps.Logger,
	}

	e.GET("/healthz", h.Healthz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("")
	if deps.Limiter != nil {
		api.Use(RateLimit(deps.Limiter, deps.Metrics))
	}
	api.GET("/search", h.Search)
	api.GET("/api/search", h.Search)
	api.GET("/trending", h.Trending)
	api.POST("/generate/:kind", h.Generate)
	api.GET("/history", h.History)

	return &Server{echo: e, logger: deps.Logger}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start блокируется до Shutdown; после штатной остановки возвращает http.ErrServerClosed
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
