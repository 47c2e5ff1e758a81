package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/search"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := search.NewFetcher(search.FetcherConfig{Timeout: time.Second}, zap.NewNop())
	return New(Config{BaseURL: server.URL}, fetcher, zap.NewNop())
}

func TestClient_Suggest(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/complete/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("client") != "firefox" || r.URL.Query().Get("q") != "golang" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`["golang",["golang tutorial","golang vs rust"],[],{"google:suggesttype":[]}]`))
	})

	got, err := client.Suggest(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 2 || got[1] != "golang vs rust" {
		t.Errorf("Suggest() = %v", got)
	}
}

func TestClient_SuggestMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"single element", `["golang"]`},
		{"second element not a list", `["golang", 42]`},
		{"object", `{"q":"golang"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Suggest(context.Background(), "golang")
			if !errors.Is(err, search.ErrMalformedPayload) {
				t.Errorf("Suggest() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestClient_SuggestStatus(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Suggest(context.Background(), "golang")
	if !errors.Is(err, search.ErrRateLimit) {
		t.Errorf("Suggest() error = %v, want ErrRateLimit", err)
	}
}
