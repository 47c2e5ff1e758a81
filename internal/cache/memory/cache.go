package memory

import (
	"context"
	"sync"
	"time"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultMaxEntries    = 1000
)

type Options struct {
	// SweepInterval - как часто уборщик выкидывает протухшие записи
	SweepInterval time.Duration
	// MaxEntries - при переполнении вытесняется запись, которая истекает раньше всех
	MaxEntries int
	Now        func() time.Time
}

type entry struct {
	data     []byte
	deadline time.Time
}

// Cache - L1 кеш агрегатов в памяти процесса
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	max     int
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func New() *Cache {
	return NewWithContext(context.Background(), Options{})
}

// NewWithContext: уборщик живет до отмены ctx или Stop
func NewWithContext(ctx context.Context, opts Options) *Cache {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		entries: make(map[string]entry),
		max:     opts.MaxEntries,
		now:     opts.Now,
		done:    make(chan struct{}),
	}
	go c.sweepLoop(ctx, opts.SweepInterval)
	return c
}

// Get отдает копию, вызывающий может менять срез
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.deadline) {
		return nil, false
	}
	return append([]byte(nil), e.data...), true
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[key] = entry{
		data:     append([]byte(nil), value...),
		deadline: now.Add(ttl),
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len считает и протухшие записи, которые уборщик еще не забрал
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Cache) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpiredLocked(now)
}

func (c *Cache) dropExpiredLocked(now time.Time) int {
	dropped := 0
	for k, e := range c.entries {
		if !now.Before(e.deadline) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// сначала протухшие, если их нет - ближайшая к истечению
func (c *Cache) evictLocked(now time.Time) {
	if c.dropExpiredLocked(now) > 0 {
		return
	}

	var (
		victim   string
		earliest time.Time
		found    bool
	)
	for k, e := range c.entries {
		if !found || e.deadline.Before(earliest) {
			victim, earliest, found = k, e.deadline, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}
