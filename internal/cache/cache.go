package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Cache хранит сериализованные значения; промах и недоступность бэкенда неразличимы
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Key - детерминированный ключ из частей
func Key(prefix string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%x", prefix, hash[:12])
}

// Tiered: L1 быстрый локальный, L2 общий (redis). Попадание в L2 прогревает L1.
type Tiered struct {
	l1    Cache
	l2    Cache
	l1TTL time.Duration
}

func NewTiered(l1, l2 Cache, l1TTL time.Duration) *Tiered {
	return &Tiered{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.l1.Get(ctx, key); ok {
		return v, true
	}
	if t.l2 == nil {
		return nil, false
	}

	v, ok := t.l2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.l1.Set(ctx, key, v, t.l1TTL)
	return v, true
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	l1TTL := t.l1TTL
	if l1TTL <= 0 || l1TTL > ttl {
		l1TTL = ttl
	}
	t.l1.Set(ctx, key, value, l1TTL)
	if t.l2 != nil {
		t.l2.Set(ctx, key, value, ttl)
	}
}

// Nop - кеш выключен
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
