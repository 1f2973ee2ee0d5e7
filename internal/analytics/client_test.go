// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetops/opspilot-tui/internal/model"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           url,
		RequestsPerSecond: 1000, // don't pace tests
		Burst:             1000,
	})
}

func TestClient_Query(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		json.NewEncoder(w).Encode(ChatResponse{
			Summary:  "Acme had the most delays.",
			Grouping: "transporter",
			Metrics:  []model.Metric{{Entity: "Acme", Total: 100, Delayed: 9, DelayPct: 9}},
			RawRows:  model.NewTable([]map[string]any{{"transporter": "Acme", "total": 100.0}}),
			Chart:    &model.ChartRecommendation{ChartType: model.ChartBar, X: "transporter"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	history := []model.HistoryEntry{{Role: model.RoleUser, Content: "show delays"}}
	resp, err := client.Query(context.Background(), "show delays", history)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if gotReq.Message != "show delays" {
		t.Errorf("request message = %q", gotReq.Message)
	}
	if len(gotReq.History) != 1 || gotReq.History[0].Role != model.RoleUser {
		t.Errorf("request history = %+v", gotReq.History)
	}

	if resp.Summary != "Acme had the most delays." {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.RawRows.Len() != 1 {
		t.Errorf("RawRows rows = %d, want 1", resp.RawRows.Len())
	}
	if !resp.Chart.Is(model.ChartBar) {
		t.Errorf("Chart = %+v, want bar", resp.Chart)
	}
}

func TestClient_QuerySendsEmptyHistoryArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if string(raw["history"]) != "[]" {
			t.Errorf("history encoded as %s, want []", raw["history"])
		}
		json.NewEncoder(w).Encode(ChatResponse{Summary: "ok"})
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Query(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
}

func TestClient_QueryBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Query(context.Background(), "hi", nil)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
}

func TestClient_QueryBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Query(context.Background(), "hi", nil)
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("error = %v, want ErrBadResponse", err)
	}
}

func TestClient_QueryUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the port refuses connections

	_, err := newTestClient(server.URL).Query(context.Background(), "hi", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestClientConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	if c.config.BaseURL == "" {
		t.Error("BaseURL default not applied")
	}
	if c.config.Timeout == 0 {
		t.Error("Timeout default not applied")
	}
	if c.limiter == nil {
		t.Error("limiter not initialized")
	}
}
