package service

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/cache"
	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/repository"
	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/settle"
)

// AggregationFailedMessage отдается клиенту вместе с пустым результатом
const AggregationFailedMessage = "Some search results could not be fetched"

const (
	historyTimeout = 3 * time.Second
	maxCacheTTL    = time.Minute
)

// Sources - адаптеры платформ. nil означает, что источник не подключен.
type Sources struct {
	YouTube   search.Source[[]domain.VideoResult]
	Reddit    search.Source[[]domain.RedditResult]
	Google    search.Source[[]domain.WebResult]
	X         search.Source[[]domain.Tweet]
	Instagram search.Source[domain.InstagramResult]
	TikTok    search.Source[[]domain.TikTokEntry]
	LinkedIn  search.Source[[]domain.LinkedInPost]
}

type FallbackGenerator interface {
	RedditPosts(query string) []domain.RedditResult
}

type SearchConfig struct {
	SourceTimeout time.Duration
	CacheTTL      time.Duration
	// Concurrency <= 0 - все источники сразу
	Concurrency     int
	BreakerFailures int
	BreakerCooldown time.Duration
}

type SearchServiceDeps struct {
	Sources  Sources
	Fallback FallbackGenerator
	Cache    cache.Cache
	History  repository.HistoryRepository
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   SearchConfig
}

type SearchService struct {
	sources  Sources
	fallback FallbackGenerator
	cache    cache.Cache
	history  repository.HistoryRepository
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   SearchConfig
	breakers map[string]*gobreaker.CircuitBreaker

	// фоновые записи истории
	wg sync.WaitGroup
}

func NewSearchService(deps SearchServiceDeps) *SearchService {
	if deps.Config.SourceTimeout <= 0 {
		deps.Config.SourceTimeout = 5 * time.Second
	}
	// в агрегате уже отрисовано "5 minutes ago", дольше минуты он врет
	if deps.Config.CacheTTL <= 0 || deps.Config.CacheTTL > maxCacheTTL {
		deps.Config.CacheTTL = maxCacheTTL
	}
	if deps.Config.BreakerFailures <= 0 {
		deps.Config.BreakerFailures = 5
	}
	if deps.Config.BreakerCooldown <= 0 {
		deps.Config.BreakerCooldown = 30 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &SearchService{
		sources:  deps.Sources,
		fallback: deps.Fallback,
		cache:    deps.Cache,
		history:  deps.History,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   deps.Config,
		breakers: make(map[string]*gobreaker.CircuitBreaker, len(domain.AllSources)),
	}
	for _, name := range domain.AllSources {
		s.breakers[name] = s.newBreaker(name)
	}
	return s
}

func (s *SearchService) newBreaker(name string) *gobreaker.CircuitBreaker {
	failures := uint32(s.config.BreakerFailures)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// ненастроенный источник и отмена клиентом - не вина апстрима
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, search.ErrSourceUnavailable) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state change",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if s.metrics != nil {
				s.metrics.SetBreakerState(name, float64(to))
			}
		},
	})
}

// Search опрашивает все источники параллельно и собирает то, что успело прийти.
// Ошибка возвращается только для пустого запроса.
func (s *SearchService) Search(ctx context.Context, text string) (*domain.AggregateResult, error) {
	start := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	q := domain.NewSearchQuery(text)
	if err := q.Validate(); err != nil {
		s.recordRequest("validation_error", start)
		return nil, err
	}

	key := cache.Key("search", q.CacheKey())
	if res, ok := s.cached(ctx, key); ok {
		s.recordRequest("cache_hit", start)
		s.recordHistory(q.Text, res, false)
		return res, nil
	}

	res, degraded := s.aggregate(ctx, q.Text)

	status := "success"
	switch {
	case res.Error != "":
		status = "aggregation_failed"
	case degraded:
		status = "degraded"
	default:
		s.store(ctx, key, res)
	}
	s.recordRequest(status, start)

	s.logger.Info("search completed",
		zap.Int("query_length", len(q.Text)),
		zap.String("status", status),
		zap.Int("total_results", res.Total()),
		zap.Duration("duration", time.Since(start)),
	)

	s.recordHistory(q.Text, res, status != "success")
	return res, nil
}

func (s *SearchService) aggregate(ctx context.Context, query string) (res *domain.AggregateResult, degraded bool) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("aggregation failed",
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			res = domain.EmptyAggregate()
			res.Error = AggregationFailedMessage
			degraded = true
		}
	}()

	var r domain.AggregateResult
	tasks := []settle.Task{
		sourceTask(s, domain.SourceYouTube, s.sources.YouTube, query, &r.YouTube),
		sourceTask(s, domain.SourceReddit, s.sources.Reddit, query, &r.Reddit),
		sourceTask(s, domain.SourceGoogle, s.sources.Google, query, &r.Google),
		sourceTask(s, domain.SourceX, s.sources.X, query, &r.X),
		sourceTask(s, domain.SourceInstagram, s.sources.Instagram, query, &r.Instagram),
		sourceTask(s, domain.SourceTikTok, s.sources.TikTok, query, &r.TikTok),
		sourceTask(s, domain.SourceLinkedIn, s.sources.LinkedIn, query, &r.LinkedIn),
	}

	outcomes := settle.AllWithOptions(ctx, settle.Options{Limit: s.config.Concurrency}, tasks...)
	for _, o := range outcomes {
		if s.settleOutcome(query, o, &r) {
			degraded = true
		}
	}

	r.Normalize()
	return &r, degraded
}

// sourceTask пишет только в свой слот и только при успехе
func sourceTask[T any](s *SearchService, name string, src search.Source[T], query string, slot *T) settle.Task {
	return settle.Task{
		Name: name,
		Run: func(ctx context.Context) error {
			if src == nil {
				return search.ErrSourceUnavailable
			}

			ctx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
			defer cancel()

			v, err := s.breakers[name].Execute(func() (interface{}, error) {
				return src.Search(ctx, query)
			})
			if err != nil {
				return err
			}
			*slot = v.(T)
			return nil
		},
	}
}

// settleOutcome возвращает true, если источник отработал с ошибкой
func (s *SearchService) settleOutcome(query string, o settle.Outcome, r *domain.AggregateResult) bool {
	status := outcomeStatus(o.Err)
	if s.metrics != nil {
		s.metrics.RecordSourceRequest(o.Name, status, o.Elapsed)
	}

	switch {
	case o.Err == nil:
		return false
	case errors.Is(o.Err, search.ErrSourceUnavailable):
		s.logger.Info("source unavailable", zap.String("source", o.Name))
		return false
	}

	fields := []zap.Field{
		zap.String("source", o.Name),
		zap.String("status", status),
		zap.Duration("elapsed", o.Elapsed),
		zap.Error(o.Err),
	}
	if o.Stack != nil {
		s.logger.Error("source panicked", append(fields, zap.ByteString("stack", o.Stack))...)
	} else {
		s.logger.Warn("source failed", fields...)
	}

	if o.Name == domain.SourceReddit && s.fallback != nil {
		r.Reddit = s.fallback.RedditPosts(query)
		if s.metrics != nil {
			s.metrics.RecordFallback(o.Name)
		}
	}
	return true
}

func outcomeStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, search.ErrSourceUnavailable):
		return "unavailable"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, settle.ErrPanic):
		return "panic"
	default:
		return "error"
	}
}

func (s *SearchService) cached(ctx context.Context, key string) (*domain.AggregateResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
		return nil, false
	}

	var res domain.AggregateResult
	if err := json.Unmarshal(raw, &res); err != nil {
		s.logger.Warn("cached aggregate is corrupted", zap.String("key", key), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
		return nil, false
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit()
	}
	res.Normalize()
	return &res, true
}

func (s *SearchService) store(ctx context.Context, key string, res *domain.AggregateResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		s.logger.Warn("failed to encode aggregate for cache", zap.Error(err))
		return
	}
	s.cache.Set(ctx, key, raw, s.config.CacheTTL)
}

func (s *SearchService) recordHistory(query string, res *domain.AggregateResult, degraded bool) {
	if s.history == nil {
		return
	}

	entry := &domain.HistoryEntry{
		Query:    query,
		Counts:   res.Counts(),
		Degraded: degraded,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("failed to record search history", zap.Error(err))
		}
	}()
}

// History - последние поиски, новые первыми
func (s *SearchService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if err := domain.ValidateHistoryLimit(limit); err != nil {
		return nil, err
	}
	return s.history.Recent(ctx, limit)
}

func (s *SearchService) HistoryEnabled() bool {
	return s.history != nil
}

// BreakerStates - состояние предохранителей по источникам для healthz
func (s *SearchService) BreakerStates() map[string]string {
	states := make(map[string]string, len(s.breakers))
	for name, b := range s.breakers {
		states[name] = b.State().String()
	}
	return states
}

// Wait дожидается фоновых записей истории
func (s *SearchService) Wait() {
	s.wg.Wait()
}

func (s *SearchService) recordRequest(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRequest("search", status, time.Since(start))
	}
}
