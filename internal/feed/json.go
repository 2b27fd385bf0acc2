package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
)

const (
	userAgent    = "marketpulse/1 (+https://github.com/matheuskafuri/marketpulse)"
	maxBodyBytes = 10 << 20
)

// JSONFetcher reads aggregator endpoints returning either a bare array of
// {title, source, link, timestamp} records or an object with an "articles"
// array. Requests from one fetcher share a rate limiter.
type JSONFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	maxAge  time.Duration
	now     func() time.Time
}

func NewJSONFetcher(opts Options) *JSONFetcher {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &JSONFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		maxAge:  opts.maxAge(),
		now:     opts.clock(),
	}
}

type jsonRecord struct {
	Title       string     `json:"title"`
	Source      jsonSource `json:"source"`
	Link        string     `json:"link"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Timestamp   jsonTime   `json:"timestamp"`
	PublishedAt jsonTime   `json:"publishedAt"`
}

// jsonSource accepts "Reuters" or {"name": "Reuters"}.
type jsonSource string

func (s *jsonSource) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*s = jsonSource(obj.Name)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = jsonSource(str)
	return nil
}

// jsonTime accepts epoch milliseconds (number or numeric string) or RFC 3339.
type jsonTime struct{ time.Time }

func (t *jsonTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var str string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
	} else {
		str = string(b)
	}
	if str == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(str, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return fmt.Errorf("unrecognized timestamp %q", str)
	}
	t.Time = parsed
	return nil
}

func (f *JSONFetcher) Fetch(ctx context.Context, source config.Source) ([]cache.Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", source.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source.Name, err)
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source.Name, err)
	}

	now := f.now()
	cutoff := now.Add(-f.maxAge)
	articles := make([]cache.Article, 0, len(records))
	for _, r := range records {
		link := r.Link
		if link == "" {
			link = r.URL
		}
		title := stripHTML(r.Title)
		if title == "" || link == "" {
			continue
		}
		pub := r.Timestamp.Time
		if pub.IsZero() {
			pub = r.PublishedAt.Time
		}
		if pub.IsZero() {
			pub = now
		}
		if pub.Before(cutoff) {
			continue
		}
		name := strings.TrimSpace(string(r.Source))
		if name == "" {
			name = source.Name
		}
		articles = append(articles, cache.Article{
			ID:          articleID(link),
			Source:      name,
			Title:       title,
			Link:        link,
			Description: truncate(stripHTML(r.Description), descriptionCap),
			Published:   pub,
			FetchedAt:   now,
		})
	}
	return articles, nil
}

func decodeRecords(body []byte) ([]jsonRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var records []jsonRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var envelope struct {
		Articles []jsonRecord `json:"articles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Articles, nil
}
