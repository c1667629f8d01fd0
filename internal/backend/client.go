// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the mcpchat server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeBadRequest
	ErrTypeInvalidResponse
)

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnreachable reports whether err means the backend could not be reached.
func IsUnreachable(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeUnreachable
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTimeout
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL of the mcpchat server.
	BaseURL string

	// Timeout for non-streaming requests.
	Timeout time.Duration

	// StreamTimeout bounds one whole streaming exchange. 0 = no limit.
	StreamTimeout time.Duration

	// Model sent with requests that don't specify one.
	Model string

	// RequestsPerSec caps outgoing requests.
	RequestsPerSec float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://localhost:8000",
		Timeout:        30 * time.Second,
		StreamTimeout:  5 * time.Minute,
		Model:          "default",
		RequestsPerSec: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the mcpchat server.
type Client struct {
	config  *ClientConfig
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with an explicit configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	rps := config.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		// Burst of 1: back-to-back sends queue instead of stacking up.
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Config returns the client configuration.
func (c *Client) Config() *ClientConfig {
	return c.config
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream sends a chat request and calls the callback for each streamed
// chunk. The callback runs synchronously in arrival order. ChatStream
// returns when the stream ends, the context is cancelled, or the transport
// fails.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, callback StreamCallback) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if req.Model == "" {
		req.Model = c.config.Model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return &ClientError{Type: ErrTypeBadRequest, Message: "marshal request", Cause: err}
	}

	if c.config.StreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.StreamTimeout)
		defer cancel()
	}

	// The streaming connection must outlive http.Client.Timeout; the
	// context carries the deadline instead.
	streamClient := &http.Client{}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeBadRequest, Message: "create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var serverErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&serverErr); err == nil && serverErr.Error != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: serverErr.Error}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("stream request failed: %s", resp.Status),
		}
	}

	return NewStreamReader(resp.Body).Process(ctx, callback)
}

// ChatStreamChan is ChatStream with a channel interface. The channel closes
// when the stream ends; errors arrive as a final chunk with Err set.
func (c *Client) ChatStreamChan(ctx context.Context, req ChatRequest) <-chan StreamChunk {
	ch := make(chan StreamChunk)

	go func() {
		defer close(ch)

		err := c.ChatStream(ctx, req, func(chunk StreamChunk) {
			select {
			case ch <- chunk:
			case <-ctx.Done():
			}
		})
		if err != nil {
			select {
			case ch <- StreamChunk{Err: err, Done: true}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// =============================================================================
// TOOL LISTING
// =============================================================================

// ListTools fetches the MCP tools the server currently exposes.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tools", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeBadRequest, Message: "create request", Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("list tools failed: %s", resp.Status),
		}
	}

	var payload struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "decode tools", Cause: err}
	}
	return payload.Tools, nil
}
