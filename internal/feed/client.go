package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
)

// ErrNoArticles is returned when every source failed.
var ErrNoArticles = errors.New("no articles could be fetched")

// Options configures fetchers and the Client.
type Options struct {
	Sources    []config.Source
	HTTPClient *http.Client
	MaxAge     time.Duration
	// RateLimit is requests per second for json sources; 0 is unlimited.
	RateLimit float64
	Timeout   time.Duration
	// Cache, when set, receives every fetched article.
	Cache   *cache.Cache
	Log     *logger.Logger
	Metrics metrics.Recorder
	Now     func() time.Time
}

func (o Options) maxAge() time.Duration {
	if o.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return o.MaxAge
}

func (o Options) clock() func() time.Time {
	if o.Now == nil {
		return time.Now
	}
	return o.Now
}

// OptionsFromConfig maps the config file onto fetcher options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Sources:   cfg.EnabledSources(),
		MaxAge:    cfg.MaxAgeDuration(),
		RateLimit: cfg.JSONRateLimit,
		Timeout:   cfg.FetchTimeoutDuration(),
	}
}

// Client fetches, dedupes and orders articles across all sources.
type Client struct {
	opts     Options
	fetchers map[string]Fetcher
}

func NewClient(opts Options) *Client {
	if opts.Log == nil {
		opts.Log = logger.Get()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	rss := NewRSSFetcher(opts)
	return &Client{
		opts: opts,
		fetchers: map[string]Fetcher{
			"rss":  rss,
			"atom": rss,
			"json": NewJSONFetcher(opts),
		},
	}
}

// Fetch returns the deduplicated articles of every source, newest first.
// Individual source failures are logged; the call fails only when every
// source failed.
func (c *Client) Fetch(ctx context.Context) ([]cache.Article, error) {
	log := c.opts.Log.With("component", "feed")
	result := FetchAll(ctx, c.opts.Sources, c.fetchers)

	for _, e := range result.Errors {
		c.opts.Metrics.RecordFetchError(e.Source)
		log.Warnw("source failed", "source", e.Source, "error", e.Err)
	}
	if len(result.Errors) > 0 && len(result.Errors) == len(c.opts.Sources) {
		errs := make([]error, len(result.Errors))
		for i, e := range result.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("%w: %w", ErrNoArticles, errors.Join(errs...))
	}

	articles := Dedupe(result.Articles)
	if c.opts.Cache != nil && len(articles) > 0 {
		if err := c.opts.Cache.UpsertArticles(articles); err != nil {
			log.Warnw("caching articles", "error", err)
		} else if err := c.opts.Cache.SetLastRefresh(); err != nil {
			log.Warnw("recording refresh time", "error", err)
		}
	}
	log.Debugw("fetched", "sources", len(c.opts.Sources), "failed", len(result.Errors), "articles", len(articles))
	return articles, nil
}

// Dedupe drops repeated IDs, keeping the first, and orders newest first.
func Dedupe(articles []cache.Article) []cache.Article {
	seen := make(map[string]bool, len(articles))
	out := make([]cache.Article, 0, len(articles))
	for _, a := range articles {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out
}

// CacheSource serves articles from the local cache instead of the network.
type CacheSource struct {
	Cache  *cache.Cache
	MaxAge time.Duration
	Now    func() time.Time
}

func (s CacheSource) Fetch(ctx context.Context) ([]cache.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	maxAge := s.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	articles, err := s.Cache.GetArticlesSince(now().Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("reading cached articles: %w", err)
	}
	return Dedupe(articles), nil
}
