package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

var ctx = context.Background()

// fakeClock - ручное время для проверок TTL без sleep
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, max int) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewWithContext(ctx, Options{SweepInterval: time.Hour, MaxEntries: max, Now: clock.Now})
	t.Cleanup(c.Stop)
	return c, clock
}

func TestCache_SetAndGet(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set(ctx, "search:golang", []byte(`{"youtube":[]}`), 5*time.Second)

	got, ok := cache.Get(ctx, "search:golang")
	if !ok {
		t.Fatal("Get() should return ok=true for existing key")
	}
	if string(got) != `{"youtube":[]}` {
		t.Errorf("Get() = %s, want stored aggregate", got)
	}
}

func TestCache_GetNonExistent(t *testing.T) {
	cache := New()
	defer cache.Stop()

	got, ok := cache.Get(ctx, "non-existent")
	if ok {
		t.Error("Get() should return ok=false for non-existent key")
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	cache, clock := newTestCache(t, 10)

	cache.Set(ctx, "expiring", []byte("v"), time.Minute)

	clock.Advance(59 * time.Second)
	if _, ok := cache.Get(ctx, "expiring"); !ok {
		t.Error("key should exist before TTL expiration")
	}

	clock.Advance(time.Second)
	if _, ok := cache.Get(ctx, "expiring"); ok {
		t.Error("key should be expired exactly at TTL")
	}
}

func TestCache_NonPositiveTTLIgnored(t *testing.T) {
	cache, _ := newTestCache(t, 10)

	cache.Set(ctx, "zero", []byte("v"), 0)
	cache.Set(ctx, "negative", []byte("v"), -time.Second)

	if n := cache.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestCache_ReturnsCopy(t *testing.T) {
	cache, _ := newTestCache(t, 10)

	value := []byte("abc")
	cache.Set(ctx, "k", value, time.Hour)
	value[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value changed through caller slice: %s", got)
	}

	got[1] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestCache_SweepRemovesExpired(t *testing.T) {
	cache := NewWithContext(ctx, Options{SweepInterval: 10 * time.Millisecond})
	defer cache.Stop()

	cache.Set(ctx, "short", []byte("v"), time.Millisecond)
	cache.Set(ctx, "long", []byte("v"), time.Hour)

	time.Sleep(60 * time.Millisecond)

	if n := cache.Len(); n != 1 {
		t.Errorf("Len() = %d after sweep, want 1", n)
	}
}

func TestCache_EvictsExpiredFirst(t *testing.T) {
	cache, clock := newTestCache(t, 2)

	cache.Set(ctx, "old", []byte("v"), time.Second)
	cache.Set(ctx, "fresh", []byte("v"), time.Hour)
	clock.Advance(2 * time.Second)

	cache.Set(ctx, "new", []byte("v"), time.Hour)

	if _, ok := cache.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry must survive when an expired one can be dropped")
	}
	if n := cache.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
}

func TestCache_EvictsEarliestDeadline(t *testing.T) {
	cache, _ := newTestCache(t, 2)

	cache.Set(ctx, "a", []byte("v"), time.Hour)
	cache.Set(ctx, "b", []byte("v"), time.Minute)
	cache.Set(ctx, "c", []byte("v"), time.Hour)

	if _, ok := cache.Get(ctx, "b"); ok {
		t.Error("entry closest to expiry should be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := cache.Get(ctx, k); !ok {
			t.Errorf("entry %q should be kept", k)
		}
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	cache, _ := newTestCache(t, 2)

	cache.Set(ctx, "a", []byte("value1"), time.Hour)
	cache.Set(ctx, "b", []byte("v"), time.Hour)
	cache.Set(ctx, "a", []byte("value2"), time.Hour)

	got, _ := cache.Get(ctx, "a")
	if string(got) != "value2" {
		t.Errorf("Get() = %s, want value2 after overwrite", got)
	}
	if _, ok := cache.Get(ctx, "b"); !ok {
		t.Error("overwrite of existing key must not evict others")
	}
}

func TestCache_Delete(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set(ctx, "delete-key", []byte("v"), time.Hour)
	cache.Delete("delete-key")

	if _, ok := cache.Get(ctx, "delete-key"); ok {
		t.Error("key should not exist after delete")
	}
}

func TestCache_StopTwice(t *testing.T) {
	cache := New()

	cache.Stop()
	cache.Stop()
}

func TestCache_WorksAfterContextCancel(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	cache := NewWithContext(cctx, Options{SweepInterval: time.Minute})

	cancel()
	time.Sleep(10 * time.Millisecond)

	cache.Set(ctx, "another", []byte("value"), time.Hour)
	if _, ok := cache.Get(ctx, "another"); !ok {
		t.Error("cache should still work after context cancel")
	}
}

func TestCache_Concurrent(t *testing.T) {
	cache := NewWithContext(ctx, Options{MaxEntries: 50})
	defer cache.Stop()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := "k" + strconv.Itoa(i%80)
				cache.Set(ctx, key, []byte(strconv.Itoa(i)), time.Hour)
				cache.Get(ctx, key)
				if i%10 == 0 {
					cache.Delete(key)
				}
			}
		}()
	}
	wg.Wait()

	if n := cache.Len(); n > 50 {
		t.Errorf("Len() = %d, must not exceed MaxEntries", n)
	}
}
