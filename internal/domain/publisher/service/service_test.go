package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hoangnm/baithook/internal/domain/publisher/dao"
	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
	"github.com/hoangnm/baithook/internal/realtime"
)

type memStatus struct {
	mu sync.Mutex
	st *entity.PublisherStatus
}

func (m *memStatus) Get(_ context.Context) (*entity.PublisherStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == nil {
		return nil, nil
	}
	cp := *m.st
	return &cp, nil
}

func (m *memStatus) Patch(_ context.Context, p dao.StatusPatch) (*entity.PublisherStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if m.st == nil {
		def := entity.DefaultStatus(now)
		m.st = &def
	}
	if p.AutoMode != nil {
		m.st.AutoMode = *p.AutoMode
	}
	if p.NextPostAt != nil {
		m.st.NextPostAt = *p.NextPostAt
	}
	if p.FBPostsToday != nil {
		m.st.FBPostsToday = *p.FBPostsToday
	}
	if p.THPostsToday != nil {
		m.st.THPostsToday = *p.THPostsToday
	}
	m.st.LastUpdated = now
	cp := *m.st
	return &cp, nil
}

func (m *memStatus) ResetDailyCounts(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != nil {
		m.st.FBPostsToday = 0
		m.st.THPostsToday = 0
	}
	return nil
}

type memPostLog struct {
	mu      sync.Mutex
	entries []entity.PostLogEntry
}

func (m *memPostLog) Add(_ context.Context, e *entity.PostLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memPostLog) Recent(_ context.Context, max int) ([]entity.PostLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Like the store, zero rows yields a nil slice.
	var out []entity.PostLogEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < max; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// memCounters mimics the store-side atomic increment: the mutex plays the
// role of the database, so concurrent increments always sum.
type memCounters struct {
	mu sync.Mutex
	c  *entity.LiveCounters
}

func (m *memCounters) Get(_ context.Context) (*entity.LiveCounters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.c == nil {
		return nil, nil
	}
	cp := *m.c
	return &cp, nil
}

func (m *memCounters) Increment(_ context.Context, field string, amount float64) (*entity.LiveCounters, error) {
	if !entity.IsCounterField(field) {
		return nil, entity.ErrUnknownCounterField
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.c == nil {
		zero := entity.ZeroCounters(time.Now())
		m.c = &zero
	}
	switch field {
	case entity.CounterTotalClicks:
		m.c.TotalClicks += amount
	case entity.CounterTotalOrders:
		m.c.TotalOrders += amount
	case entity.CounterTotalCommission:
		m.c.TotalCommission += amount
	case entity.CounterTotalPosts:
		m.c.TotalPosts += amount
	}
	m.c.LastUpdated = time.Now()
	cp := *m.c
	return &cp, nil
}

func newTestService() (*Service, *realtime.Broker) {
	b := realtime.NewBroker()
	return New(&memStatus{}, &memPostLog{}, &memCounters{}, b), b
}

func TestGetStatusReturnsDefaultWhenAbsent(t *testing.T) {
	svc, _ := newTestService()

	before := time.Now()
	st, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("get status: %v", err)
	}

	if !st.AutoMode {
		t.Error("default auto_mode = false, want true")
	}
	if st.FBPostsToday != 0 || st.THPostsToday != 0 {
		t.Error("default daily counters not zero")
	}

	// next_post_at defaults to now + 120s, within tolerance
	want := before.Add(2 * time.Minute).UnixMilli()
	if diff := st.NextPostAt - want; diff < 0 || diff > 5000 {
		t.Errorf("next_post_at = %d, want ~%d", st.NextPostAt, want)
	}
}

func TestSetStatusPatchesAndNotifies(t *testing.T) {
	svc, broker := newTestService()
	sub := broker.Subscribe(realtime.TopicPublisher)
	defer sub.Cancel()

	auto := false
	st, err := svc.SetStatus(context.Background(), dao.StatusPatch{AutoMode: &auto})
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if st.AutoMode {
		t.Error("auto_mode not patched")
	}

	select {
	case <-sub.C:
	default:
		t.Error("no snapshot published on status change")
	}
}

func TestConcurrentIncrementsNeverLoseUpdates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.IncrementCounter(ctx, entity.CounterTotalClicks, 1); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	c, err := svc.GetCounters(ctx)
	if err != nil {
		t.Fatalf("get counters: %v", err)
	}
	if c.TotalClicks != workers {
		t.Errorf("total_clicks = %v, want %d", c.TotalClicks, workers)
	}
}

func TestIncrementRejectsUnknownField(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.IncrementCounter(context.Background(), "total_hacks", 1); err != entity.ErrUnknownCounterField {
		t.Errorf("err = %v, want ErrUnknownCounterField", err)
	}
}

func TestGetCountersZeroWhenAbsent(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.GetCounters(context.Background())
	if err != nil {
		t.Fatalf("get counters: %v", err)
	}
	if c.TotalClicks != 0 || c.TotalOrders != 0 || c.TotalCommission != 0 || c.TotalPosts != 0 {
		t.Errorf("counters not zeroed: %+v", c)
	}
}

func TestAddPostLogStampsAndOrdersNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.AddPostLog(ctx, entity.PostLogEntry{
		Platform: entity.PlatformFacebook,
		Text:     "bài số 1",
		Result:   entity.PostResultSuccess,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" || first.Timestamp == 0 || first.Time == "" {
		t.Errorf("entry not stamped: %+v", first)
	}

	if _, err := svc.AddPostLog(ctx, entity.PostLogEntry{
		Platform: entity.PlatformThreads,
		Text:     "bài số 2",
		Result:   entity.PostResultError,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := svc.RecentLog(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Text != "bài số 2" {
		t.Errorf("newest first violated: got %q first", entries[0].Text)
	}
}

func TestRecentLogOnEmptyLogReturnsEmptySlice(t *testing.T) {
	svc, _ := newTestService()

	entries, err := svc.RecentLog(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent log: %v", err)
	}
	if entries == nil {
		t.Fatal("entries is nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
