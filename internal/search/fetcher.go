package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const maxBodySize = 4 << 20

type FetcherConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
	UserAgent     string
}

// Fetcher - общий HTTP-слой для всех адаптеров: статус -> ошибка,
// ретраи 5xx с экспоненциальной задержкой, декодирование и валидация JSON.
type Fetcher struct {
	client        *http.Client
	logger        *zap.Logger
	maxRetries    int
	retryInterval time.Duration
	userAgent     string
}

func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		userAgent:     cfg.UserAgent,
	}
}

// RequestFunc собирает запрос заново на каждую попытку (тело POST читается один раз)
type RequestFunc func(ctx context.Context) (*http.Request, error)

func Get(rawURL string, headers map[string]string) RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}
}

// PostJSON сериализует body один раз, а запрос собирает на каждую попытку
func PostJSON(rawURL string, headers map[string]string, body any) RequestFunc {
	payload, marshalErr := json.Marshal(body)
	return func(ctx context.Context) (*http.Request, error) {
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal body: %w", marshalErr)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}
}

// DoJSON выполняет запрос и декодирует ответ в out. Если out реализует
// Validator, несоответствие схеме возвращается как ErrMalformedPayload.
func (f *Fetcher) DoJSON(ctx context.Context, build RequestFunc, out any) error {
	attempt := 0
	op := func() error {
		attempt++

		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		if f.userAgent != "" && req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", f.userAgent)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("do request: %w", err)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if err := StatusError(resp.StatusCode); err != nil {
			if resp.StatusCode >= 500 {
				f.logger.Debug("upstream server error, will retry",
					zap.String("host", req.URL.Host),
					zap.Int("status", resp.StatusCode),
					zap.Int("attempt", attempt),
				)
				return err
			}
			return backoff.Permanent(err)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
		}

		if v, ok := out.(Validator); ok {
			if err := v.Validate(); err != nil {
				return backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
			}
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.retryInterval
	exp.MaxElapsedTime = 0 // ограничено контекстом

	var b backoff.BackOff = backoff.WithMaxRetries(exp, uint64(f.maxRetries))
	b = backoff.WithContext(b, ctx)

	err := backoff.Retry(op, b)
	if err != nil && !isClassified(err) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	return err
}

// StatusError сопоставляет HTTP-статус с ошибкой пакета; nil для 2xx
func StatusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimit, code)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: status %d", ErrInvalidRequest, code)
	default:
		return fmt.Errorf("%w: status %d", ErrSearchFailed, code)
	}
}

func isClassified(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrSearchFailed) ||
		errors.Is(err, ErrMalformedPayload)
}
