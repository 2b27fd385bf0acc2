package cache

import "time"

// Article is a single headline fetched from a feed source.
type Article struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	Published   time.Time `json:"published"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type QueryOpts struct {
	Since   time.Time
	Sources []string
	Search  string
	Limit   int
}

// Reading is a recorded fear/greed index value for one dashboard load.
type Reading struct {
	RunID      string    `json:"run_id"`
	Index      int       `json:"index"`
	Label      string    `json:"label"`
	Articles   int       `json:"articles"`
	FearCount  int       `json:"fear_count"`
	GreedCount int       `json:"greed_count"`
	RecordedAt time.Time `json:"recorded_at"`
}
