package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

const alertBody = `{
	"embeds": [{
		"title": "Loss Alert: pdd_group",
		"color": 15158332,
		"fields": [
			{"name": "Platform", "value": "pdd", "inline": true},
			{"name": "Profit", "value": "¥-1.23", "inline": true}
		]
	}]
}`

func TestWebhookHandler_Accepts(t *testing.T) {
	rec := &recorder{}
	handler := webhookHandler(testLogger(), rec, 0, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/0/mock", strings.NewReader(alertBody))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusNoContent)
	}

	count, payloads := rec.snapshot()
	if count != 1 {
		t.Fatalf("count=%d, want 1", count)
	}
	if len(payloads[0].Embeds) != 1 {
		t.Fatalf("embeds=%d, want 1", len(payloads[0].Embeds))
	}
	if payloads[0].Embeds[0].Title != "Loss Alert: pdd_group" {
		t.Errorf("title=%q", payloads[0].Embeds[0].Title)
	}
}

func TestWebhookHandler_BadPayload(t *testing.T) {
	rec := &recorder{}
	handler := webhookHandler(testLogger(), rec, 0, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/0/mock", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
	if count, _ := rec.snapshot(); count != 0 {
		t.Errorf("count=%d, want 0", count)
	}
}

func TestWebhookHandler_FailEvery(t *testing.T) {
	rec := &recorder{}
	handler := webhookHandler(testLogger(), rec, 2, 0)

	codes := make([]int, 0, 4)
	for range 4 {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/0/mock", strings.NewReader(alertBody))
		w := httptest.NewRecorder()
		handler(w, req)
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusNoContent, http.StatusInternalServerError, http.StatusNoContent, http.StatusInternalServerError}
	for i, code := range codes {
		if code != want[i] {
			t.Errorf("delivery %d: status=%d, want %d", i+1, code, want[i])
		}
	}
	if count, _ := rec.snapshot(); count != 2 {
		t.Errorf("count=%d, want 2", count)
	}
}

func TestWebhookHandler_LimitEvery(t *testing.T) {
	rec := &recorder{}
	handler := webhookHandler(testLogger(), rec, 0, 3)

	var got429 bool
	for i := range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/0/mock", strings.NewReader(alertBody))
		w := httptest.NewRecorder()
		handler(w, req)

		if i == 2 {
			got429 = w.Code == http.StatusTooManyRequests
			if w.Header().Get("Retry-After") == "" {
				t.Error("expected Retry-After header on 429")
			}
		}
	}
	if !got429 {
		t.Error("expected third delivery to be rate limited")
	}
}

func TestReceivedHandler(t *testing.T) {
	rec := &recorder{}
	rec.add(webhookPayload{Content: "hello"})

	handler := receivedHandler(rec)
	req := httptest.NewRequest(http.MethodGet, "/received", http.NoBody)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Count    int              `json:"count"`
		Payloads []webhookPayload `json:"payloads"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count=%d, want 1", resp.Count)
	}
	if len(resp.Payloads) != 1 || resp.Payloads[0].Content != "hello" {
		t.Errorf("payloads=%+v", resp.Payloads)
	}
}

func TestReceivedHandler_Empty(t *testing.T) {
	handler := receivedHandler(&recorder{})
	req := httptest.NewRequest(http.MethodGet, "/received", http.NoBody)
	w := httptest.NewRecorder()
	handler(w, req)

	// Empty list must encode as [], not null.
	if !strings.Contains(w.Body.String(), `"payloads":[]`) {
		t.Errorf("body=%s, want empty payloads array", w.Body.String())
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
