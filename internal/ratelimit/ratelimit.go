package ratelimit

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

// Limiter - sliding window по произвольному ключу (ip клиента, id чата)
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

type Config struct {
	RequestsPerMinute int
	// Now - часы для тестов
	Now func() time.Time
}

// New без фоновой очистки; для долгоживущих процессов - NewWithContext
func New(cfg Config) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = 10
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Limiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   time.Minute,
		now:      now,
	}
}

// NewWithContext запускает очистку, которая живет до отмены ctx
func NewWithContext(ctx context.Context, cfg Config) *Limiter {
	l := New(cfg)
	go l.cleanupLoop(ctx)
	return l
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.fresh(key, now)

	if len(fresh) >= l.limit {
		l.requests[key] = fresh
		return false
	}

	l.requests[key] = append(fresh, now)
	return true
}

func (l *Limiter) RemainingRequests(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда освободится следующий слот
func (l *Limiter) ResetTime(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.requests[key]
	if len(ts) == 0 {
		return l.now()
	}

	oldest := ts[0]
	for _, t := range ts[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	return oldest.Add(l.window)
}

// RetryAfter - сколько ждать до следующего разрешенного запроса, не меньше секунды
func (l *Limiter) RetryAfter(key string) time.Duration {
	d := l.ResetTime(key).Sub(l.now())
	if d < time.Second {
		return time.Second
	}
	return d
}

func (l *Limiter) Limit() int {
	return l.limit
}

// fresh вызывается под мьютексом
func (l *Limiter) fresh(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.requests[key]
	fresh := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func (l *Limiter) cleanupLoop(ctx context.Context) {
	tick := time.NewTicker(cleanupInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			l.Cleanup()
		}
	}
}

// Cleanup удаляет ключи без свежих запросов
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.requests {
		fresh := l.fresh(key, now)
		if len(fresh) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = fresh
		}
	}
}

// Len - число отслеживаемых ключей
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
