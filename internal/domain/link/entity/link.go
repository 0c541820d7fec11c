package entity

import "time"

// AffLink is a registered affiliate link. shortened_url may be empty when
// shortening failed; original_url is then authoritative and shortener is
// "none". clicks, orders and commission are maintained by the external
// attribution service and are read-only here.
type AffLink struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OriginalURL    string    `json:"original_url"`
	ShortenedURL   string    `json:"shortened_url"`
	Shortener      string    `json:"shortener"`
	CollectionName string    `json:"collection_name"`
	Clicks         int64     `json:"clicks"`
	Orders         int64     `json:"orders"`
	Commission     float64   `json:"commission"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShortenerNone is the provider name recorded when shortening failed
const ShortenerNone = "none"
