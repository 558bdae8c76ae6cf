package notifications_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"greenroom/internal/notifications"
	"greenroom/internal/store"
	"greenroom/internal/testsupport"
)

func TestDrainDeliversAndMarksSent(t *testing.T) {
	var delivered atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Title") == "" {
			t.Error("expected Title header on ntfy request")
		}
		delivered.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := st.EnqueueNotification(ctx, &store.Notification{
			UserID:  int64(i + 1),
			Type:    "task_created",
			Title:   "New task",
			Message: "work is ready",
		}); err != nil {
			t.Fatalf("EnqueueNotification failed: %v", err)
		}
	}

	dispatcher := notifications.NewDispatcher(st, notifications.NewService(cfg), nil)
	sent, err := dispatcher.Drain(ctx, 10)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if sent != 3 || delivered.Load() != 3 {
		t.Fatalf("expected 3 deliveries, got sent=%d delivered=%d", sent, delivered.Load())
	}

	// A second drain finds nothing pending.
	sent, err = dispatcher.Drain(ctx, 10)
	if err != nil {
		t.Fatalf("second Drain failed: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected empty outbox, got %d", sent)
	}
}

func TestDrainLeavesFailedDeliveriesPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := st.EnqueueNotification(ctx, &store.Notification{
		UserID:  1,
		Type:    "task_created",
		Title:   "New task",
		Message: "work is ready",
	}); err != nil {
		t.Fatalf("EnqueueNotification failed: %v", err)
	}

	dispatcher := notifications.NewDispatcher(st, notifications.NewService(cfg), nil)
	sent, err := dispatcher.Drain(ctx, 10)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if sent != 0 {
		t.Fatalf("failed delivery should not count as sent, got %d", sent)
	}

	pending, err := st.PendingNotifications(ctx, 10)
	if err != nil {
		t.Fatalf("PendingNotifications failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed delivery should stay pending, got %d", len(pending))
	}
}

func TestNoopServiceWhenUnconfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service := notifications.NewService(cfg)
	if err := service.Deliver(context.Background(), &store.Notification{Title: "x"}); err != nil {
		t.Fatalf("noop Deliver should never fail: %v", err)
	}
	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop TestNotification should never fail: %v", err)
	}
}
