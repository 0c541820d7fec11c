package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	campaignsvc "github.com/hoangnm/baithook/internal/domain/campaign/service"
	"github.com/hoangnm/baithook/internal/httpx/response"
	"github.com/hoangnm/baithook/internal/realtime"
)

// EventBroker defines the subscription side of the realtime broker
type EventBroker interface {
	Subscribe(topic string) *realtime.Subscription
}

// EventsHandler streams publisher and campaign state changes over
// Server-Sent Events. Each stream sends the current snapshot on connect,
// then every published change, and tears the subscription down when the
// client disconnects.
type EventsHandler struct {
	broker    EventBroker
	publisher PublisherService
	campaigns CampaignService
}

// NewEventsHandler creates a new SSE events handler
func NewEventsHandler(broker EventBroker, publisher PublisherService, campaigns CampaignService) *EventsHandler {
	return &EventsHandler{broker: broker, publisher: publisher, campaigns: campaigns}
}

// RegisterRoutes registers SSE event routes
func (h *EventsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/publisher", h.stream(realtime.TopicPublisher, h.statusSnapshot))
		r.Get("/log", h.stream(realtime.TopicPostLog, h.logSnapshot))
		r.Get("/counters", h.stream(realtime.TopicCounters, h.countersSnapshot))
		r.Get("/campaigns", h.stream(realtime.TopicCampaigns, h.campaignsSnapshot))
	})
}

func (h *EventsHandler) statusSnapshot(ctx context.Context) (interface{}, error) {
	return h.publisher.GetStatus(ctx)
}

func (h *EventsHandler) logSnapshot(ctx context.Context) (interface{}, error) {
	return h.publisher.RecentLog(ctx, 0)
}

func (h *EventsHandler) countersSnapshot(ctx context.Context) (interface{}, error) {
	return h.publisher.GetCounters(ctx)
}

func (h *EventsHandler) campaignsSnapshot(ctx context.Context) (interface{}, error) {
	out, err := h.campaigns.List(ctx, campaignsvc.ListInput{Limit: 200})
	if err != nil {
		return nil, err
	}
	return out.Campaigns, nil
}

func (h *EventsHandler) stream(topic string, snapshot func(context.Context) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			response.InternalError(w, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		sub := h.broker.Subscribe(topic)
		defer sub.Cancel()

		if snap, err := snapshot(r.Context()); err == nil {
			if payload, err := json.Marshal(snap); err == nil {
				writeEvent(w, payload)
				flusher.Flush()
			}
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case msg, open := <-sub.C:
				if !open {
					return
				}
				writeEvent(w, msg)
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, payload []byte) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
