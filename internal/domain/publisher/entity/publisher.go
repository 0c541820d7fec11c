package entity

import "time"

// Platform is a posting target
type Platform string

const (
	PlatformFacebook Platform = "FB"
	PlatformThreads  Platform = "TH"
)

// PostResult is the outcome of a post attempt
type PostResult string

const (
	PostResultSuccess PostResult = "success"
	PostResultError   PostResult = "error"
)

// PublisherStatus is the singleton auto-publisher state shared by the
// scheduler (writer) and every dashboard viewer (readers).
type PublisherStatus struct {
	AutoMode     bool      `json:"auto_mode"`
	NextPostAt   int64     `json:"next_post_at"` // unix milliseconds
	FBPostsToday int       `json:"fb_posts_today"`
	THPostsToday int       `json:"th_posts_today"`
	LastUpdated  time.Time `json:"last_updated"`
}

// DefaultStatus is the well-defined first-run snapshot returned when no
// status record exists yet: auto mode on, next post two minutes out.
func DefaultStatus(now time.Time) PublisherStatus {
	return PublisherStatus{
		AutoMode:    true,
		NextPostAt:  now.Add(2 * time.Minute).UnixMilli(),
		LastUpdated: now,
	}
}

// PostLogEntry is one append-only record of a post attempt
type PostLogEntry struct {
	ID         string     `json:"id"`
	Time       string     `json:"time"`
	Platform   Platform   `json:"platform"`
	Text       string     `json:"text"`
	Result     PostResult `json:"result"`
	Comment    string     `json:"comment"`
	CampaignID string     `json:"campaign_id,omitempty"`
	Timestamp  int64      `json:"timestamp"` // unix milliseconds, sort key
}

// LiveCounters is the singleton running-total record behind the dashboard
type LiveCounters struct {
	TotalClicks     float64   `json:"total_clicks"`
	TotalOrders     float64   `json:"total_orders"`
	TotalCommission float64   `json:"total_commission"`
	TotalPosts      float64   `json:"total_posts"`
	LastUpdated     time.Time `json:"last_updated"`
}

// ZeroCounters is the snapshot returned when no counter record exists
func ZeroCounters(now time.Time) LiveCounters {
	return LiveCounters{LastUpdated: now}
}

// Counter field names accepted by IncrementCounter
const (
	CounterTotalClicks     = "total_clicks"
	CounterTotalOrders     = "total_orders"
	CounterTotalCommission = "total_commission"
	CounterTotalPosts      = "total_posts"
)

// IsCounterField reports whether name is a known counter column
func IsCounterField(name string) bool {
	switch name {
	case CounterTotalClicks, CounterTotalOrders, CounterTotalCommission, CounterTotalPosts:
		return true
	default:
		return false
	}
}
