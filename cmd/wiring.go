package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/ai"
	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/feed"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
)

// env is what most commands need: config, an open cache and a logger.
type env struct {
	cfg *config.Config
	db  *cache.Cache
	log *logger.Logger
}

// logMode picks where the global logger writes.
type logMode int

const (
	logStderr logMode = iota
	logFile
)

func setup(mode logMode) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	switch mode {
	case logFile:
		err = logger.InitFile(cfg.LogLevel(), config.LogPath())
	default:
		err = logger.Init(cfg.LogLevel(), cfg.Log.Env)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &env{cfg: cfg, db: db, log: logger.Get()}, nil
}

func (e *env) Close() {
	e.db.Close()
	logger.Sync()
}

// liveSource fetches from the network and counts successful refreshes.
func (e *env) liveSource(rec metrics.Recorder) dashboard.Source {
	opts := feed.OptionsFromConfig(e.cfg)
	opts.Cache = e.db
	opts.Log = e.log
	opts.Metrics = rec
	client := feed.NewClient(opts)
	db, log := e.db, e.log
	return dashboard.SourceFunc(func(ctx context.Context) ([]cache.Article, error) {
		articles, err := client.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		countRefresh(db, log)
		return articles, nil
	})
}

type refreshCounter interface {
	IncrementRefreshCount() (int, error)
}

// countRefresh bumps the persisted refresh count. A failed write only costs
// the counter, so it is logged and the fetched articles are still served.
func countRefresh(c refreshCounter, log *logger.Logger) {
	if _, err := c.IncrementRefreshCount(); err != nil {
		log.Warnw("recording refresh count", "error", err)
	}
}

func (e *env) cacheSource() dashboard.Source {
	return feed.CacheSource{Cache: e.db, MaxAge: e.cfg.MaxAgeDuration()}
}

// warmSource serves the first load from the cache and every later one from
// the network.
type warmSource struct {
	cached dashboard.Source
	live   dashboard.Source
	used   atomic.Bool
}

func (w *warmSource) Fetch(ctx context.Context) ([]cache.Article, error) {
	if w.used.CompareAndSwap(false, true) {
		articles, err := w.cached.Fetch(ctx)
		if err == nil && len(articles) > 0 {
			return articles, nil
		}
	}
	return w.live.Fetch(ctx)
}

func (e *env) newDashboard(src dashboard.Source, rec metrics.Recorder) *dashboard.Dashboard {
	return dashboard.New(dashboard.Options{
		Source:        src,
		SourceWeights: e.cfg.SourceWeights(),
		BriefSize:     e.cfg.GetBriefSize(),
		NavBaseURL:    e.cfg.NavBaseURL,
		Log:           e.log,
		Metrics:       rec,
		Readings:      e.db,
	})
}

// briefer returns nil when AI is not configured or misconfigured.
func (e *env) briefer() ai.Briefer {
	if !e.cfg.AIEnabled() {
		return nil
	}
	b, err := ai.New(e.cfg.AI, e.cfg.AIKey(), ai.Options{})
	if err != nil {
		e.log.Warnw("AI brief disabled", "error", err)
		return nil
	}
	return b
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
