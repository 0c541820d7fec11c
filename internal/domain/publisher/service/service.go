package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hoangnm/baithook/internal/domain/publisher/dao"
	"github.com/hoangnm/baithook/internal/domain/publisher/entity"
	"github.com/hoangnm/baithook/internal/realtime"
)

// DefaultLogSize is how many post log entries a live feed shows
const DefaultLogSize = 20

// Service handles the publisher status singleton, the post log and the
// live counters. Every mutation publishes a fresh snapshot to live
// subscribers.
type Service struct {
	status   dao.StatusRepository
	postLog  dao.PostLogRepository
	counters dao.CountersRepository
	broker   *realtime.Broker
}

// New creates a new publisher service. The broker may be nil when live
// snapshots are not needed.
func New(status dao.StatusRepository, postLog dao.PostLogRepository, counters dao.CountersRepository, broker *realtime.Broker) *Service {
	return &Service{
		status:   status,
		postLog:  postLog,
		counters: counters,
		broker:   broker,
	}
}

// GetStatus returns the publisher status, or the first-run default when no
// record exists yet. The default is not persisted; the first write creates
// the record.
func (s *Service) GetStatus(ctx context.Context) (*entity.PublisherStatus, error) {
	st, err := s.status.Get(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		def := entity.DefaultStatus(time.Now())
		return &def, nil
	}
	return st, nil
}

// SetStatus applies a partial status update and notifies subscribers
func (s *Service) SetStatus(ctx context.Context, p dao.StatusPatch) (*entity.PublisherStatus, error) {
	st, err := s.status.Patch(ctx, p)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.TopicPublisher, st)
	return st, nil
}

// ResetDailyCounts zeroes the per-day platform counters (midnight job)
func (s *Service) ResetDailyCounts(ctx context.Context) error {
	if err := s.status.ResetDailyCounts(ctx); err != nil {
		return err
	}

	st, err := s.GetStatus(ctx)
	if err == nil {
		s.publish(realtime.TopicPublisher, st)
	}
	return nil
}

// AddPostLog appends a post log entry, stamping the server-observed
// timestamp, and pushes the refreshed feed to subscribers.
func (s *Service) AddPostLog(ctx context.Context, e entity.PostLogEntry) (*entity.PostLogEntry, error) {
	now := time.Now()
	e.ID = uuid.New().String()
	e.Timestamp = now.UnixMilli()
	if e.Time == "" {
		e.Time = now.Format("15:04:05")
	}

	if err := s.postLog.Add(ctx, &e); err != nil {
		return nil, err
	}

	if entries, err := s.postLog.Recent(ctx, DefaultLogSize); err == nil {
		s.publish(realtime.TopicPostLog, entries)
	}

	return &e, nil
}

// RecentLog returns the newest max entries, newest-first
func (s *Service) RecentLog(ctx context.Context, max int) ([]entity.PostLogEntry, error) {
	if max <= 0 {
		max = DefaultLogSize
	}
	entries, err := s.postLog.Recent(ctx, max)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		// An empty log serializes as [], never null.
		entries = []entity.PostLogEntry{}
	}
	return entries, nil
}

// GetCounters returns the live counters, zeroed when no record exists yet
func (s *Service) GetCounters(ctx context.Context) (*entity.LiveCounters, error) {
	c, err := s.counters.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		zero := entity.ZeroCounters(time.Now())
		return &zero, nil
	}
	return c, nil
}

// IncrementCounter atomically adds amount to one counter field. The
// increment runs inside the store, so two concurrent calls always sum.
func (s *Service) IncrementCounter(ctx context.Context, field string, amount float64) (*entity.LiveCounters, error) {
	if !entity.IsCounterField(field) {
		return nil, entity.ErrUnknownCounterField
	}

	c, err := s.counters.Increment(ctx, field, amount)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.TopicCounters, c)
	return c, nil
}

func (s *Service) publish(topic string, payload interface{}) {
	if s.broker == nil {
		return
	}
	_ = s.broker.Publish(topic, payload)
}
