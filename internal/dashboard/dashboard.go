package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/entity"
	"github.com/matheuskafuri/marketpulse/internal/events"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
	"github.com/matheuskafuri/marketpulse/internal/nav"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
	"github.com/matheuskafuri/marketpulse/internal/signal"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

var (
	// ErrRefreshInFlight is returned when a load is requested while one is running.
	ErrRefreshInFlight = errors.New("refresh already in progress")
	// ErrUnknownEntity is returned by Detail for tickers with no mentions.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrNotLoaded is returned by Detail before a successful load.
	ErrNotLoaded = errors.New("dashboard not loaded")
)

// State is the load lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Source supplies the article set for a load.
type Source interface {
	Fetch(ctx context.Context) ([]cache.Article, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]cache.Article, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]cache.Article, error) { return f(ctx) }

// ReadingRecorder persists one fear/greed reading per successful load.
type ReadingRecorder interface {
	RecordReading(r cache.Reading) error
}

// Options wires a Dashboard. Only Source is required.
type Options struct {
	Source        Source
	Entities      *entity.Database
	Scorer        sentiment.Scorer
	Topics        []topics.Topic
	SourceWeights map[string]float64
	BriefSize     int
	NavBaseURL    string
	Bus           *events.Bus
	Log           *logger.Logger
	Metrics       metrics.Recorder
	Readings      ReadingRecorder
	Now           func() time.Time
}

// Dashboard owns the current article set and its snapshot. Loads replace
// both wholesale; it is safe for concurrent use.
type Dashboard struct {
	opts     Options
	inFlight atomic.Bool

	mu       sync.RWMutex
	state    State
	err      error
	snapshot *Snapshot
}

func New(opts Options) *Dashboard {
	if opts.Entities == nil {
		opts.Entities = entity.Default()
	}
	if opts.Scorer == nil {
		opts.Scorer = sentiment.NewAnalyzer()
	}
	if opts.Topics == nil {
		opts.Topics = topics.Default()
	}
	if opts.Bus == nil {
		opts.Bus = &events.Bus{}
	}
	if opts.Log == nil {
		opts.Log = logger.Get()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Log = opts.Log.With("component", "dashboard")
	return &Dashboard{opts: opts}
}

// Events returns the bus lifecycle events are published on.
func (d *Dashboard) Events() *events.Bus { return d.opts.Bus }

// Topics returns the topic table the dashboard detects with.
func (d *Dashboard) Topics() []topics.Topic { return d.opts.Topics }

// Load performs the initial fetch and analysis.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.Refresh(ctx)
}

// Refresh discards all derived state and recomputes it from a freshly fetched
// article set. A call made while another is running returns
// ErrRefreshInFlight without fetching. On fetch failure the dashboard moves to
// Failed and holds no snapshot.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if !d.inFlight.CompareAndSwap(false, true) {
		d.opts.Metrics.RecordIgnored()
		d.opts.Bus.Publish(events.Event{Kind: events.RefreshIgnored, At: d.opts.Now()})
		return ErrRefreshInFlight
	}
	defer d.inFlight.Store(false)

	start := d.opts.Now()
	d.setState(Loading, nil, nil, false)
	d.opts.Bus.Publish(events.Event{Kind: events.LoadStarted, At: start})

	articles, err := d.opts.Source.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("loading articles: %w", err)
		d.setState(Failed, err, nil, true)
		elapsed := d.opts.Now().Sub(start)
		d.opts.Metrics.RecordRefresh(elapsed, err)
		d.opts.Log.Errorw("load failed", "error", err, "duration", elapsed)
		d.opts.Bus.Publish(events.Event{Kind: events.LoadFailed, Err: err, Duration: elapsed})
		return err
	}

	snap := Analyze(articles, Deps{
		Entities:      d.opts.Entities,
		Scorer:        d.opts.Scorer,
		Topics:        d.opts.Topics,
		SourceWeights: d.opts.SourceWeights,
		BriefSize:     d.opts.BriefSize,
		Now:           d.opts.Now(),
	})
	d.setState(Loaded, nil, &snap, true)

	elapsed := d.opts.Now().Sub(start)
	d.opts.Metrics.RecordRefresh(elapsed, nil)
	mentions := make(map[string]int, len(snap.Topics))
	for _, s := range snap.Topics {
		mentions[s.Name] = s.Count
	}
	d.opts.Metrics.RecordSnapshot(len(snap.Articles), snap.FearGreed.Index, mentions)
	d.record(snap)

	d.opts.Log.Infow("load completed",
		"articles", len(snap.Articles),
		"topics", len(snap.Topics),
		"index", snap.FearGreed.Index,
		"duration", elapsed,
	)
	d.opts.Bus.Publish(events.Event{Kind: events.LoadCompleted, Articles: len(snap.Articles), Duration: elapsed})
	return nil
}

func (d *Dashboard) record(snap Snapshot) {
	if d.opts.Readings == nil {
		return
	}
	fg := snap.FearGreed
	err := d.opts.Readings.RecordReading(cache.Reading{
		RunID:      uuid.NewString(),
		Index:      fg.Index,
		Label:      fg.Label,
		Articles:   len(snap.Articles),
		FearCount:  fg.FearCount,
		GreedCount: fg.GreedCount,
		RecordedAt: snap.GeneratedAt,
	})
	if err != nil {
		d.opts.Log.Warnw("recording reading", "error", err)
	}
}

func (d *Dashboard) setState(s State, err error, snap *Snapshot, replace bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	d.err = err
	if replace {
		d.snapshot = snap
	}
}

// State returns the lifecycle state and the last load error.
func (d *Dashboard) State() (State, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.err
}

// Snapshot returns the current snapshot, if any.
func (d *Dashboard) Snapshot() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.snapshot == nil {
		return Snapshot{}, false
	}
	return *d.snapshot, true
}

// DetailArticle is one article in an entity detail view.
type DetailArticle struct {
	Article   cache.Article    `json:"article"`
	Sentiment sentiment.Result `json:"sentiment"`
	Relevance float64          `json:"relevance"`
}

// Detail is the per-entity drill-down.
type Detail struct {
	Company        entity.Company  `json:"company"`
	Articles       []DetailArticle `json:"articles"`
	PositiveCount  int             `json:"positive_count"`
	NegativeCount  int             `json:"negative_count"`
	NeutralCount   int             `json:"neutral_count"`
	TotalSentiment int             `json:"total_sentiment"`
	AvgSentiment   int             `json:"avg_sentiment"`
	AnalysisURL    string          `json:"analysis_url"`
	PredictionURL  string          `json:"prediction_url"`
}

// Detail builds the drill-down for ticker from the current snapshot. Article
// sentiment is scored again here rather than read back from the ranking.
func (d *Dashboard) Detail(ticker string) (Detail, error) {
	snap, ok := d.Snapshot()
	if !ok {
		return Detail{}, ErrNotLoaded
	}
	company, ok := d.opts.Entities.Lookup(ticker)
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrUnknownEntity, ticker)
	}

	var found bool
	var articles []cache.Article
	for _, agg := range snap.Aggregates {
		if strings.EqualFold(agg.Ticker, company.Ticker) {
			articles, found = agg.Articles, true
			break
		}
	}
	if !found {
		return Detail{}, fmt.Errorf("%w: %s", ErrUnknownEntity, ticker)
	}

	det := Detail{
		Company:       company,
		Articles:      make([]DetailArticle, 0, len(articles)),
		AnalysisURL:   nav.AnalysisURL(d.opts.NavBaseURL, company.Ticker),
		PredictionURL: nav.PredictionURL(d.opts.NavBaseURL, company.Ticker),
	}
	now := d.opts.Now()
	for _, a := range articles {
		res := d.opts.Scorer.Analyze(a.Title)
		det.TotalSentiment += res.Score
		switch res.Sentiment {
		case sentiment.Positive:
			det.PositiveCount++
		case sentiment.Negative:
			det.NegativeCount++
		default:
			det.NeutralCount++
		}
		det.Articles = append(det.Articles, DetailArticle{
			Article:   a,
			Sentiment: res,
			Relevance: signal.ScoreAt(signal.Input{
				Title:       a.Title,
				Description: a.Description,
				Source:      a.Source,
				Published:   a.Published,
			}, d.opts.SourceWeights, now).Final,
		})
	}
	if n := len(det.Articles); n > 0 {
		det.AvgSentiment = int(math.Round(float64(det.TotalSentiment) / float64(n)))
	}
	sort.SliceStable(det.Articles, func(i, j int) bool {
		return det.Articles[i].Relevance > det.Articles[j].Relevance
	})

	d.opts.Bus.Publish(events.Event{Kind: events.EntitySelected, Ticker: company.Ticker, Articles: len(det.Articles)})
	return det, nil
}
