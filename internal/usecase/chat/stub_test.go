package chat_test

import (
	"context"
	"sync"

	"socratic-tutor/internal/usecase/chat"
)

// stubClient records every request and answers with a canned reply.
// When block is set, Complete waits for it to close.
type stubClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []chat.CompletionRequest
	started  chan struct{}
	block    chan struct{}
}

func (c *stubClient) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.reply, c.err
}

func (c *stubClient) Requests() []chat.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.CompletionRequest(nil), c.requests...)
}
