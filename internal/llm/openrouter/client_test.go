package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/llm"
)

func TestClient_CompleteWithSystem(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		response   interface{}
		statusCode int
		wantErr    error
	}{
		{
			name: "successful completion",
			response: llm.ChatResponse{
				Choices: []llm.Choice{
					{Message: llm.Message{Role: "assistant", Content: "Test response"}},
				},
			},
			statusCode: http.StatusOK,
			wantErr:    nil,
		},
		{
			name:       "unauthorized",
			response:   map[string]string{"error": "unauthorized"},
			statusCode: http.StatusUnauthorized,
			wantErr:    llm.ErrAuthFailed,
		},
		{
			name:       "rate limit",
			response:   map[string]string{"error": "rate limit"},
			statusCode: http.StatusTooManyRequests,
			wantErr:    llm.ErrRateLimit,
		},
		{
			name: "empty response",
			response: llm.ChatResponse{
				Choices: []llm.Choice{},
			},
			statusCode: http.StatusOK,
			wantErr:    llm.ErrEmptyResponse,
		},
		{
			name: "error in body",
			response: map[string]any{
				"error": map[string]any{"message": "model overloaded", "code": 503},
			},
			statusCode: http.StatusOK,
			wantErr:    llm.ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Error("missing authorization header")
				}

				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			client := New(Config{
				APIKey:  "test-key",
				BaseURL: server.URL,
				Timeout: 5 * time.Second,
			}, logger)

			result, err := client.CompleteWithSystem(context.Background(), "system", "prompt")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CompleteWithSystem() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("CompleteWithSystem() unexpected error = %v", err)
				return
			}

			if result == "" {
				t.Error("CompleteWithSystem() returned empty result")
			}
		})
	}
}

func TestClient_SendsTemperatureAndModel(t *testing.T) {
	var got llm.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(llm.ChatResponse{
			Choices: []llm.Choice{{Message: llm.Message{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL, Model: "test/model", Temperature: 0.7}, nil)
	if _, err := client.CompleteWithSystem(context.Background(), "sys", "hi"); err != nil {
		t.Fatalf("CompleteWithSystem() error = %v", err)
	}

	if got.Model != "test/model" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Temperature == nil || *got.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Content != "sys" || got.Messages[1].Content != "hi" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(llm.ChatResponse{
			Choices: []llm.Choice{{Message: llm.Message{Content: "second time"}}},
		})
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 2}, nil)
	got, err := client.CompleteWithSystem(context.Background(), "s", "p")
	if err != nil {
		t.Fatalf("CompleteWithSystem() error = %v", err)
	}
	if got != "second time" {
		t.Errorf("result = %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_NoRetryOnAuth(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 3}, nil)
	_, err := client.CompleteWithSystem(context.Background(), "s", "p")
	if !errors.Is(err, llm.ErrAuthFailed) {
		t.Errorf("error = %v, want ErrAuthFailed", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
