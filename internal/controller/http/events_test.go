package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
	"github.com/hoangnm/baithook/internal/realtime"
)

func TestEventsStream_SnapshotThenUpdates(t *testing.T) {
	broker := realtime.NewBroker()
	p := &fakePublisher{counters: entity.LiveCounters{TotalClicks: 5}}

	r := chi.NewRouter()
	NewEventsHandler(broker, p, newFakeCampaigns()).RegisterRoutes(r)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events/counters", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handler time to send the snapshot and subscribe.
	time.Sleep(50 * time.Millisecond)

	if err := broker.Publish(realtime.TopicCounters, entity.LiveCounters{TotalClicks: 6}); err != nil {
		t.Fatalf("publishing update: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after client disconnect")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	if got := strings.Count(body, "data: "); got != 2 {
		t.Errorf("expected 2 events (snapshot + update), got %d in %q", got, body)
	}
	if !strings.Contains(body, `"total_clicks":5`) {
		t.Errorf("snapshot missing from stream: %q", body)
	}
	if !strings.Contains(body, `"total_clicks":6`) {
		t.Errorf("update missing from stream: %q", body)
	}
}

func TestEventsStream_DisconnectCancelsSubscription(t *testing.T) {
	broker := realtime.NewBroker()
	p := &fakePublisher{}

	r := chi.NewRouter()
	NewEventsHandler(broker, p, newFakeCampaigns()).RegisterRoutes(r)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events/publisher", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if got := broker.SubscriberCount(realtime.TopicPublisher); got != 1 {
		t.Fatalf("subscriber count = %d, want 1 while connected", got)
	}

	cancel()
	<-done

	if got := broker.SubscriberCount(realtime.TopicPublisher); got != 0 {
		t.Errorf("subscriber count = %d, want 0 after disconnect", got)
	}
}
