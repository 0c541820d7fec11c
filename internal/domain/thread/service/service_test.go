package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/hoangnm/baithook/internal/domain/thread/dao"
	"github.com/hoangnm/baithook/internal/domain/thread/entity"
)

type memThreads struct {
	byID map[string]entity.CrawledThread

	failIDs map[string]bool // IDs whose insert fails
}

func newMemThreads() *memThreads {
	return &memThreads{
		byID:    make(map[string]entity.CrawledThread),
		failIDs: make(map[string]bool),
	}
}

func (m *memThreads) InsertIfAbsent(_ context.Context, t *entity.CrawledThread) (bool, error) {
	if m.failIDs[t.ID] {
		return false, errors.New("store unavailable")
	}
	if _, exists := m.byID[t.ID]; exists {
		return false, nil
	}
	m.byID[t.ID] = *t
	return true, nil
}

func (m *memThreads) GetByID(_ context.Context, id string) (*entity.CrawledThread, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := t
	return &cp, nil
}

func (m *memThreads) List(_ context.Context, filter dao.ThreadFilter, opts dao.ListOptions) ([]entity.CrawledThread, error) {
	var out []entity.CrawledThread
	for _, t := range m.byID {
		if t.Deleted {
			continue
		}
		if filter.Source != "" && t.Source != filter.Source {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CrawledAt.After(out[j].CrawledAt) })
	if opts.Offset < len(out) {
		out = out[opts.Offset:]
	} else {
		out = nil
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memThreads) Count(_ context.Context, filter dao.ThreadFilter) (int64, error) {
	var n int64
	for _, t := range m.byID {
		if t.Deleted {
			continue
		}
		if filter.Source != "" && t.Source != filter.Source {
			continue
		}
		n++
	}
	return n, nil
}

func (m *memThreads) SoftDelete(_ context.Context, id string) error {
	t, ok := m.byID[id]
	if !ok {
		return entity.ErrThreadNotFound
	}
	t.Deleted = true
	m.byID[id] = t
	return nil
}

func (m *memThreads) MarkSentToAI(_ context.Context, id string) error {
	t, ok := m.byID[id]
	if !ok {
		return entity.ErrThreadNotFound
	}
	t.SentToAI = true
	m.byID[id] = t
	return nil
}

func (m *memThreads) UpdateContent(_ context.Context, id string, content string) error {
	t, ok := m.byID[id]
	if !ok {
		return entity.ErrThreadNotFound
	}
	t.Content = content
	m.byID[id] = t
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func vozThread(id, title string) entity.CrawledThread {
	return entity.CrawledThread{
		ID:     id,
		Source: entity.SourceVoz,
		Title:  title,
		URL:    "https://voz.vn/t/" + id,
	}
}

func TestSaveThreadsIsIdempotent(t *testing.T) {
	repo := newMemThreads()
	svc := New(repo, discardLogger())
	ctx := context.Background()

	batch := []entity.CrawledThread{
		vozThread("voz-1", "Chuyện trò linh tinh"),
		vozThread("voz-2", "Hỏi về chuột gaming"),
	}

	saved, err := svc.SaveThreads(ctx, batch)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != 2 {
		t.Fatalf("saved = %d, want 2", saved)
	}

	// Re-saving the same IDs must not grow the stored count.
	saved, err = svc.SaveThreads(ctx, batch)
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if saved != 0 {
		t.Errorf("re-save saved = %d, want 0", saved)
	}

	total, _ := svc.CountAll(ctx)
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestSaveThreadsSkipsFailuresAndEmptyIDs(t *testing.T) {
	repo := newMemThreads()
	repo.failIDs["voz-bad"] = true
	svc := New(repo, discardLogger())

	saved, err := svc.SaveThreads(context.Background(), []entity.CrawledThread{
		vozThread("voz-ok", "ok"),
		vozThread("voz-bad", "store fails on this one"),
		vozThread("", "no id"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
}

func TestSaveThreadsDefaultsFlagsAndCrawledAt(t *testing.T) {
	repo := newMemThreads()
	svc := New(repo, discardLogger())
	ctx := context.Background()

	in := vozThread("voz-9", "defaults")
	in.SentToAI = true // callers cannot pre-set the flag
	in.Deleted = true
	if _, err := svc.SaveThreads(ctx, []entity.CrawledThread{in}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := svc.Get(ctx, "voz-9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SentToAI || got.Deleted {
		t.Error("sent_to_ai/deleted must default to false on save")
	}
	if got.CrawledAt.IsZero() {
		t.Error("crawled_at not defaulted")
	}
}

func TestSoftDeleteHidesFromListButKeepsRecord(t *testing.T) {
	repo := newMemThreads()
	svc := New(repo, discardLogger())
	ctx := context.Background()

	th := vozThread("voz-5", "soft delete me")
	th.CrawledAt = time.Now()
	if _, err := svc.SaveThreads(ctx, []entity.CrawledThread{th}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.Delete(ctx, "voz-5"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out, err := svc.List(ctx, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 0 || len(out.Threads) != 0 {
		t.Error("soft-deleted thread still listed")
	}

	// Direct lookup still works: the row exists, only listing hides it.
	got, err := svc.Get(ctx, "voz-5")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if !got.Deleted {
		t.Error("deleted flag not set")
	}
}

func TestMarkSentToAIIsOneWay(t *testing.T) {
	repo := newMemThreads()
	svc := New(repo, discardLogger())
	ctx := context.Background()

	if _, err := svc.SaveThreads(ctx, []entity.CrawledThread{vozThread("voz-7", "send me")}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.MarkSentToAI(ctx, "voz-7"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	got, _ := svc.Get(ctx, "voz-7")
	if !got.SentToAI {
		t.Error("sent_to_ai not set")
	}

	// Re-saving the thread must not reset the flag (insert is a no-op).
	if _, err := svc.SaveThreads(ctx, []entity.CrawledThread{vozThread("voz-7", "send me")}); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	got, _ = svc.Get(ctx, "voz-7")
	if !got.SentToAI {
		t.Error("re-save reset sent_to_ai")
	}
}

func TestUpdateContentBackfillsBody(t *testing.T) {
	repo := newMemThreads()
	svc := New(repo, discardLogger())
	ctx := context.Background()

	if _, err := svc.SaveThreads(ctx, []entity.CrawledThread{vozThread("voz-3", "lazy body")}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.UpdateContent(ctx, "voz-3", "nội dung chi tiết"); err != nil {
		t.Fatalf("update content: %v", err)
	}

	got, _ := svc.Get(ctx, "voz-3")
	if got.Content != "nội dung chi tiết" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestListOnEmptyStoreReturnsEmptySlice(t *testing.T) {
	svc := New(newMemThreads(), discardLogger())

	out, err := svc.List(context.Background(), ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Threads == nil {
		t.Fatal("threads is nil, want empty slice")
	}
	if len(out.Threads) != 0 || out.Total != 0 {
		t.Errorf("threads = %d, total = %d, want empty", len(out.Threads), out.Total)
	}
	if b, _ := json.Marshal(out.Threads); string(b) != "[]" {
		t.Errorf("threads marshal to %s, want []", b)
	}
}
