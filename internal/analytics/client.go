// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analytics provides the HTTP client for the logistics analytics API.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fleetops/opspilot-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the analytics client.
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

// Is matches sentinels by error type so callers can use errors.Is.
func (e *ClientError) Is(target error) bool {
	var ce *ClientError
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnavailable
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeBadResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable = &ClientError{Type: ErrTypeUnavailable, Message: "analytics service is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrBadStatus   = &ClientError{Type: ErrTypeBadStatus, Message: "analytics service returned an error status"}
	ErrBadResponse = &ClientError{Type: ErrTypeBadResponse, Message: "analytics service returned an unparseable body"}
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the payload sent to the /api/chat endpoint.
type ChatRequest struct {
	Message string               `json:"message"`
	History []model.HistoryEntry `json:"history"`
}

// ChatResponse is the answer payload. Every field except Summary is optional;
// absent fields decode to their zero values.
type ChatResponse struct {
	Summary        string                     `json:"summary"`
	TimeRange      *model.TimeRange           `json:"time_range,omitempty"`
	Grouping       string                     `json:"grouping,omitempty"`
	Metrics        []model.Metric             `json:"metrics,omitempty"`
	RawAnswer      string                     `json:"raw_answer,omitempty"`
	InsightSummary string                     `json:"insight_summary,omitempty"`
	RawRows        *model.Table               `json:"raw_rows,omitempty"`
	Chart          *model.ChartRecommendation `json:"chart,omitempty"`
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the analytics client.
type ClientConfig struct {
	// BaseURL is the analytics API base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for chat requests (default: 60s; queries can fan out to the
	// warehouse and take a while)
	Timeout time.Duration

	// RequestsPerSecond caps outbound query rate (default: 2)
	RequestsPerSecond float64

	// Burst allows short bursts above the sustained rate (default: 4)
	Burst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           60 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the analytics API.
//
// The Client is thread-safe for concurrent use; a token-bucket limiter paces
// outbound queries so a burst of sends cannot hammer the service.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new analytics client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new analytics client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}
	if config.Burst == 0 {
		config.Burst = 4
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// =============================================================================
// QUERY
// =============================================================================

// Query sends a natural-language question plus bounded history to the
// analytics API and returns the decoded answer.
//
// Any transport, status, or decode failure is reported as a *ClientError;
// callers that only care about success vs failure can treat all of them
// uniformly.
func (c *Client) Query(ctx context.Context, message string, history []model.HistoryEntry) (*ChatResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "rate limit wait canceled", Cause: err}
	}

	if history == nil {
		history = []model.HistoryEntry{}
	}
	body, err := json.Marshal(ChatRequest{Message: message, History: history})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "analytics service is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ClientError{Type: ErrTypeBadStatus, Message: "analytics service returned " + resp.Status}
	}

	var answer ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, &ClientError{Type: ErrTypeBadResponse, Message: "failed to decode response", Cause: err}
	}
	return &answer, nil
}
