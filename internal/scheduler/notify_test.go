package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOnJobCompleteSuccessRestartsThenNotifies(t *testing.T) {
	var calls []string
	var scrapePayload scrapeCompletePayload

	restart := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "restart")
		if got := r.Header.Get("X-Service-Secret"); got != "shh" {
			t.Errorf("restart call missing service secret, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer restart.Close()

	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "notify")
		_ = json.NewDecoder(r.Body).Decode(&scrapePayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer admin.Close()

	n := NewNotifier(restart.URL, admin.URL, "shh", 0, 0)
	err := n.OnJobComplete(context.Background(), "acme", nil, time.Now())
	if err != nil {
		t.Fatalf("OnJobComplete: %v", err)
	}

	if len(calls) != 2 || calls[0] != "restart" || calls[1] != "notify" {
		t.Fatalf("calls = %v, want [restart notify] in that order", calls)
	}
	if !scrapePayload.Success || !scrapePayload.BotReady {
		t.Fatalf("scrape payload = %+v, want success=true bot_ready=true", scrapePayload)
	}
}

func TestOnJobCompleteSkipsNotifyWhenRestartFails(t *testing.T) {
	var notified bool

	restart := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer restart.Close()

	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notified = true
		w.WriteHeader(http.StatusOK)
	}))
	defer admin.Close()

	n := NewNotifier(restart.URL, admin.URL, "shh", 0, 0)
	err := n.OnJobComplete(context.Background(), "acme", nil, time.Now())
	if err == nil {
		t.Fatal("expected an error when the restart call fails")
	}
	if notified {
		t.Fatal("admin backend must not be notified when the restart ack fails")
	}
}

func TestOnJobCompleteFailureOnlyNotifiesBackend(t *testing.T) {
	var restartCalled bool
	var scrapePayload scrapeCompletePayload

	restart := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restartCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer restart.Close()

	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&scrapePayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer admin.Close()

	n := NewNotifier(restart.URL, admin.URL, "shh", 0, 0)
	jobErr := context.DeadlineExceeded
	if err := n.OnJobComplete(context.Background(), "acme", jobErr, time.Now()); err != nil {
		t.Fatalf("OnJobComplete: %v", err)
	}

	if restartCalled {
		t.Fatal("restart must not be called when the crawl itself failed")
	}
	if scrapePayload.Success || scrapePayload.BotReady {
		t.Fatalf("scrape payload = %+v, want success=false bot_ready=false", scrapePayload)
	}
}
