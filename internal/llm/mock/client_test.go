package mock

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestClient_Records(t *testing.T) {
	c := New().WithResponse("hello")

	got, err := c.CompleteWithSystem(context.Background(), "sys", "prompt")
	if err != nil || got != "hello" {
		t.Fatalf("CompleteWithSystem() = %q, %v", got, err)
	}
	if c.Calls() != 1 || c.LastSystem != "sys" || c.LastPrompt != "prompt" {
		t.Errorf("recorded call = %d %q %q", c.Calls(), c.LastSystem, c.LastPrompt)
	}

	c.Reset()
	if c.Calls() != 0 || c.AllCalls != nil {
		t.Error("Reset() should clear recorded calls")
	}
}

func TestClient_Responder(t *testing.T) {
	c := New().WithResponder(func(system, prompt string) string {
		return strings.ToUpper(prompt)
	})

	got, _ := c.CompleteWithSystem(context.Background(), "", "abc")
	if got != "ABC" {
		t.Errorf("responder result = %q, want ABC", got)
	}
}

func TestClient_ErrorAndDelay(t *testing.T) {
	boom := errors.New("boom")
	if _, err := New().WithError(boom).CompleteWithSystem(context.Background(), "", ""); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := New().WithDelay(time.Second).CompleteWithSystem(ctx, "", "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}
