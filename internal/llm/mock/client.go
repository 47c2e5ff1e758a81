package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/multisearch/internal/llm"
)

// Responder строит ответ по промптам; перекрывает Response
type Responder func(system, prompt string) string

type Client struct {
	mu sync.Mutex

	Response  string
	Responder Responder
	Error     error
	Delay     time.Duration

	CallCount  int
	LastSystem string
	LastPrompt string
	AllCalls   []LLMCall
}

type LLMCall struct {
	System string
	Prompt string
}

func New() *Client {
	return &Client{
		Response: `{"content":"mock response"}`,
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithResponder(r Responder) *Client {
	c.Responder = r
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastSystem = system
	c.LastPrompt = prompt
	c.AllCalls = append(c.AllCalls, LLMCall{System: system, Prompt: prompt})
	delay, respErr, resp, responder := c.Delay, c.Error, c.Response, c.Responder
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if respErr != nil {
		return "", respErr
	}
	if responder != nil {
		return responder(system, prompt), nil
	}

	return resp, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastSystem = ""
	c.LastPrompt = ""
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
