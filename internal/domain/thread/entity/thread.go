package entity

import "time"

// Thread sources
const (
	SourceVoz    = "voz"
	SourceReddit = "reddit"
)

// CrawledThread is a forum thread captured by the crawler. The ID is the
// source's native identifier (e.g. "voz-12345"), which makes re-saving the
// same thread idempotent.
type CrawledThread struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Replies   int       `json:"replies"`
	Views     string    `json:"views"`
	TimeText  string    `json:"time_text"`
	Prefix    string    `json:"prefix"`
	Content   string    `json:"content"`
	Thumbnail string    `json:"thumbnail"`
	Score     int       `json:"score"`
	CrawledAt time.Time `json:"crawled_at"`
	SentToAI  bool      `json:"sent_to_ai"`
	Deleted   bool      `json:"deleted"`
}
