package realtime

import (
	"encoding/json"
	"testing"
)

func TestSubscribeReceivesPublishedSnapshot(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicCounters)
	defer sub.Cancel()

	payload := map[string]int{"total_clicks": 42}
	if err := b.Publish(TopicCounters, payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case raw := <-sub.C:
		var got map[string]int
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["total_clicks"] != 42 {
			t.Errorf("total_clicks = %d, want 42", got["total_clicks"])
		}
	default:
		t.Fatal("expected a buffered snapshot")
	}
}

func TestPublishDoesNotCrossTopics(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicPublisher)
	defer sub.Cancel()

	if err := b.Publish(TopicPostLog, "entry"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-sub.C:
		t.Fatal("received snapshot from a different topic")
	default:
	}
}

func TestCancelClosesChannelAndDeregisters(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicPostLog)

	if n := b.SubscriberCount(TopicPostLog); n != 1 {
		t.Fatalf("subscriber count = %d, want 1", n)
	}

	sub.Cancel()
	sub.Cancel() // idempotent

	if n := b.SubscriberCount(TopicPostLog); n != 0 {
		t.Fatalf("subscriber count after cancel = %d, want 0", n)
	}

	if _, open := <-sub.C; open {
		t.Error("channel still open after cancel")
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicCounters)
	defer sub.Cancel()

	// Overfill the buffer; Publish must never block.
	for i := 0; i < subBuffer*3; i++ {
		if err := b.Publish(TopicCounters, i); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}

	if received != subBuffer {
		t.Errorf("buffered snapshots = %d, want %d", received, subBuffer)
	}
}
