package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/search"
	"github.com/kitbuilder587/multisearch/internal/search/rapidapi"
)

func newClient(t *testing.T, key string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := search.NewFetcher(search.FetcherConfig{Timeout: time.Second}, zap.NewNop())
	gw := rapidapi.New(rapidapi.Config{Key: key, BaseURL: server.URL}, fetcher, zap.NewNop())
	return New(Config{Host: "linkedin.p.rapidapi.com"}, gw, zap.NewNop())
}

func TestClient_Search(t *testing.T) {
	client := newClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search-posts", r.URL.Path)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang", req.Keyword)

		w.Write([]byte(`{"success":true,"data":{"posts":[
			{"url":"https://linkedin.test/p/1","text":"Hiring Go engineers","postedAt":"2d","image":"https://img.test/1.png",
			 "author":{"name":"Jane","headline":"CTO","subDescription":"2d","avatar":"https://avatar.test/j.png"},
			 "stats":{"likes":120,"comments":8,"shares":3}},
			{"url":"https://linkedin.test/p/2","text":"No media","postedAt":"1w","image":"",
			 "author":{"name":"John","headline":"Engineer","avatar":"na"}}
		]}}`))
	})

	posts, err := client.Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "Hiring Go engineers", first.Content)
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://img.test/1.png", *first.Image)
	assert.Equal(t, "CTO", first.Author.Description)
	require.NotNil(t, first.Author.Avatar)
	assert.Equal(t, int64(120), first.Stats.Likes)

	second := posts[1]
	assert.Nil(t, second.Image)
	assert.Nil(t, second.Author.Avatar, `"na" avatar becomes null`)
	assert.Zero(t, second.Stats.Shares)

	raw, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"avatar":null`)
	assert.Contains(t, string(raw), `"image":null`)
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		status  int
		body    string
		wantErr error
	}{
		{"unconfigured", "", http.StatusOK, `{}`, search.ErrSourceUnavailable},
		{"upstream failure flag", "key", http.StatusOK, `{"success":false,"message":"quota"}`, search.ErrMalformedPayload},
		{"post without url", "key", http.StatusOK, `{"success":true,"data":{"posts":[{"text":"x"}]}}`, search.ErrMalformedPayload},
		{"bad request", "key", http.StatusBadRequest, `{}`, search.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, tt.key, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Search(context.Background(), "golang")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	assert.Nil(t, optional("na"))
	assert.Nil(t, optional("NA"))
	require.NotNil(t, optional("https://x.test/a.png"))
}
