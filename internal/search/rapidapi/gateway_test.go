package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/search"
)

func newGateway(t *testing.T, cfg Config, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	fetcher := search.NewFetcher(search.FetcherConfig{Timeout: time.Second}, zap.NewNop())
	return New(cfg, fetcher, zap.NewNop())
}

func TestGateway_Get_Headers(t *testing.T) {
	var gotKey, gotHost, gotQuery string
	gw := newGateway(t, Config{Key: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(headerKey)
		gotHost = r.Header.Get(headerHost)
		gotQuery = r.URL.Query().Get("query")
		assert.Equal(t, "/search", r.URL.Path)
		w.Write([]byte(`{"ok":true}`))
	})

	var out struct {
		OK bool `json:"ok"`
	}
	err := gw.Get(context.Background(), "x.p.rapidapi.com", "/search", url.Values{"query": {"golang"}}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "x.p.rapidapi.com", gotHost)
	assert.Equal(t, "golang", gotQuery)
}

func TestGateway_Post_Body(t *testing.T) {
	var body map[string]any
	gw := newGateway(t, Config{Key: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	})

	var out map[string]any
	err := gw.Post(context.Background(), "linkedin.p.rapidapi.com", "/search-posts", map[string]any{"keyword": "go"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "go", body["keyword"])
}

func TestGateway_Unavailable(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) { calls.Add(1) }

	tests := []struct {
		name string
		key  string
		host string
	}{
		{"no key", "", "x.p.rapidapi.com"},
		{"no host", "secret", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newGateway(t, Config{Key: tt.key}, handler)
			var out map[string]any
			err := gw.Get(context.Background(), tt.host, "/search", nil, &out)
			assert.True(t, errors.Is(err, search.ErrSourceUnavailable), "got %v", err)
		})
	}
	assert.Zero(t, calls.Load())
}

func TestGateway_PacingPerHost(t *testing.T) {
	gw := newGateway(t, Config{Key: "secret", RPS: 1, Burst: 1}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	var out map[string]any
	require.NoError(t, gw.Get(context.Background(), "a.host", "/", nil, &out))

	// другой хост не ждет лимитер первого
	start := time.Now()
	require.NoError(t, gw.Get(context.Background(), "b.host", "/", nil, &out))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	// тот же хост упирается в лимит, а контекст короче интервала
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := gw.Get(ctx, "a.host", "/", nil, &out)
	assert.Error(t, err)
}

func TestGateway_NilIsDisabled(t *testing.T) {
	var gw *Gateway
	assert.False(t, gw.Enabled("x.p.rapidapi.com"))
}
