// Package feed fetches headlines from RSS, Atom and JSON aggregator sources.
package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
)

const (
	// DefaultMaxAge drops articles older than two weeks.
	DefaultMaxAge  = 14 * 24 * time.Hour
	descriptionCap = 300
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]cache.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
	now    func() time.Time
}

// NewRSSFetcher returns a fetcher for rss and atom sources. A nil client
// uses http.DefaultClient; maxAge <= 0 means DefaultMaxAge.
func NewRSSFetcher(opts Options) *RSSFetcher {
	p := gofeed.NewParser()
	p.Client = opts.HTTPClient
	p.UserAgent = userAgent
	return &RSSFetcher{parser: p, maxAge: opts.maxAge(), now: opts.clock()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]cache.Article, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := f.now()
	cutoff := now.Add(-f.maxAge)
	articles := make([]cache.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" || item.Link == "" {
			continue
		}
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		if pub.Before(cutoff) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		articles = append(articles, cache.Article{
			ID:          articleID(item.Link),
			Source:      source.Name,
			Title:       stripHTML(item.Title),
			Link:        item.Link,
			Description: truncate(stripHTML(desc), descriptionCap),
			Published:   pub,
			FetchedAt:   now,
		})
	}
	return articles, nil
}

func articleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// stripHTML reduces markup to its whitespace-collapsed text content.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// SourceError is a failed fetch of a single source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return e.Err.Error() }
func (e *SourceError) Unwrap() error { return e.Err }

type FetchResult struct {
	Articles []cache.Article
	Errors   []*SourceError
}

// FetchAll fetches every source concurrently, picking the fetcher by source
// type. Results keep source order.
func FetchAll(ctx context.Context, sources []config.Source, fetchers map[string]Fetcher) FetchResult {
	var (
		wg       sync.WaitGroup
		articles = make([][]cache.Article, len(sources))
		errs     = make([]error, len(sources))
	)

	for i, src := range sources {
		f, ok := fetchers[src.Type]
		if !ok {
			errs[i] = fmt.Errorf("source %s: no fetcher for type %q", src.Name, src.Type)
			continue
		}
		wg.Add(1)
		go func(i int, s config.Source, f Fetcher) {
			defer wg.Done()
			articles[i], errs[i] = f.Fetch(ctx, s)
		}(i, src, f)
	}
	wg.Wait()

	var result FetchResult
	for i := range sources {
		if errs[i] != nil {
			result.Errors = append(result.Errors, &SourceError{Source: sources[i].Name, Err: errs[i]})
			continue
		}
		result.Articles = append(result.Articles, articles[i]...)
	}
	return result
}
