package dashboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/events"
	"github.com/matheuskafuri/marketpulse/internal/feargreed"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
)

var fixedNow = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func fixture() []cache.Article {
	mk := func(id, source, title string, age time.Duration) cache.Article {
		return cache.Article{
			ID:        id,
			Source:    source,
			Title:     title,
			Link:      "https://news.example.com/" + id,
			Published: fixedNow.Add(-age),
		}
	}
	return []cache.Article{
		mk("1", "Reuters", "Fed cuts interest rates to boost growth", time.Hour),
		mk("2", "CNBC", "Apple reports record quarterly earnings beating estimates", 2*time.Hour),
		mk("3", "Reuters", "Markets fear recession after GDP decline", 26*time.Hour),
		mk("4", "MarketWatch", "Tesla shares surge after strong delivery numbers", 3*time.Hour),
		mk("5", "CNBC", "Boeing stock plunges on safety probe", 5*time.Hour),
		mk("6", "Reuters", "Tesla faces recall worries", 30*time.Hour),
	}
}

func staticSource(articles []cache.Article) Source {
	return SourceFunc(func(context.Context) ([]cache.Article, error) {
		return articles, nil
	})
}

func newTestDashboard(src Source, opts ...func(*Options)) *Dashboard {
	o := Options{
		Source:     src,
		NavBaseURL: "https://pulse.example.com",
		Log:        logger.Nop(),
		Now:        clock,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return New(o)
}

func TestAnalyzeScenario(t *testing.T) {
	snap := Analyze(fixture()[:3], Deps{Now: fixedNow})

	found := map[string]int{}
	for _, s := range snap.Topics {
		found[s.Name] = s.Count
	}
	for _, name := range []string{"Rate Cuts", "Earnings", "Recession"} {
		if found[name] < 1 {
			t.Errorf("topic %q count = %d, want >= 1", name, found[name])
		}
	}
	if snap.FearGreed.GreedCount+snap.FearGreed.FearCount > 3 {
		t.Error("fear+greed exceeds article count")
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	snap := Analyze(nil, Deps{Now: fixedNow})
	if len(snap.Topics) != 0 {
		t.Errorf("expected no topics, got %d", len(snap.Topics))
	}
	if snap.FearGreed.Index != 0 || snap.FearGreed.Label != feargreed.Neutral {
		t.Errorf("fear/greed = %d %q, want 0 Neutral", snap.FearGreed.Index, snap.FearGreed.Label)
	}
	if len(snap.Ranking.Opportunities) != 0 || len(snap.Ranking.Risks) != 0 {
		t.Errorf("expected empty rankings, got %+v", snap.Ranking)
	}
}

func TestAnalyzeTeslaOpportunity(t *testing.T) {
	snap := Analyze(fixture()[3:4], Deps{Now: fixedNow})
	if len(snap.Ranking.Opportunities) == 0 {
		t.Fatal("expected an opportunity")
	}
	e := snap.Ranking.Opportunities[0]
	if e.Ticker != "TSLA" || e.PositiveCount < 1 || e.TotalSentiment <= 0 {
		t.Errorf("unexpected entry %+v", e.Aggregate)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	first := Analyze(fixture(), Deps{Now: fixedNow})
	second := Analyze(fixture(), Deps{Now: fixedNow})
	if !reflect.DeepEqual(first.Topics, second.Topics) {
		t.Error("topics differ between runs")
	}
	if !reflect.DeepEqual(first.FearGreed, second.FearGreed) {
		t.Error("fear/greed differs between runs")
	}
	if !reflect.DeepEqual(first.Ranking, second.Ranking) {
		t.Error("ranking differs between runs")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("snapshots differ between runs")
	}
}

func TestLoad(t *testing.T) {
	var kinds []events.Kind
	d := newTestDashboard(staticSource(fixture()))
	d.Events().Subscribe(func(e events.Event) { kinds = append(kinds, e.Kind) })

	if st, _ := d.State(); st != Idle {
		t.Fatalf("initial state = %s, want idle", st)
	}
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, err := d.State()
	if st != Loaded || err != nil {
		t.Errorf("state = %s, err = %v", st, err)
	}
	snap, ok := d.Snapshot()
	if !ok || len(snap.Articles) != len(fixture()) {
		t.Fatalf("snapshot missing or wrong size")
	}
	if len(kinds) != 2 || kinds[0] != events.LoadStarted || kinds[1] != events.LoadCompleted {
		t.Errorf("events = %v", kinds)
	}
}

func TestRefreshReplacesArticles(t *testing.T) {
	calls := 0
	src := SourceFunc(func(context.Context) ([]cache.Article, error) {
		calls++
		if calls == 1 {
			return fixture(), nil
		}
		return fixture()[:1], nil
	})
	d := newTestDashboard(src)
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap, _ := d.Snapshot()
	if len(snap.Articles) != 1 {
		t.Errorf("expected refreshed set of 1 article, got %d", len(snap.Articles))
	}
}

func TestRefreshInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := SourceFunc(func(context.Context) ([]cache.Article, error) {
		close(entered)
		<-release
		return fixture(), nil
	})
	d := newTestDashboard(src)

	var mu sync.Mutex
	ignored := 0
	d.Events().Subscribe(func(e events.Event) {
		if e.Kind == events.RefreshIgnored {
			mu.Lock()
			ignored++
			mu.Unlock()
		}
	})

	done := make(chan error, 1)
	go func() { done <- d.Refresh(context.Background()) }()
	<-entered

	if st, _ := d.State(); st != Loading {
		t.Errorf("state during fetch = %s, want loading", st)
	}
	if err := d.Refresh(context.Background()); !errors.Is(err, ErrRefreshInFlight) {
		t.Errorf("second refresh err = %v, want ErrRefreshInFlight", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if ignored != 1 {
		t.Errorf("RefreshIgnored published %d times, want 1", ignored)
	}
}

func TestRefreshFailureBlanksDashboard(t *testing.T) {
	boom := errors.New("network down")
	fail := false
	src := SourceFunc(func(context.Context) ([]cache.Article, error) {
		if fail {
			return nil, boom
		}
		return fixture(), nil
	})
	d := newTestDashboard(src)
	var failed events.Event
	d.Events().Subscribe(func(e events.Event) {
		if e.Kind == events.LoadFailed {
			failed = e
		}
	})

	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = true
	err := d.Refresh(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Refresh err = %v, want wrapped boom", err)
	}
	st, stErr := d.State()
	if st != Failed || !errors.Is(stErr, boom) {
		t.Errorf("state = %s, err = %v", st, stErr)
	}
	if _, ok := d.Snapshot(); ok {
		t.Error("snapshot should be cleared after a failed load")
	}
	v := d.View()
	if v.State != "failed" || v.Error == "" || len(v.Topics) != 0 || len(v.Opportunities) != 0 {
		t.Errorf("unexpected failed view %+v", v)
	}
	if !errors.Is(failed.Err, boom) {
		t.Errorf("LoadFailed event err = %v", failed.Err)
	}
}

type countingScorer struct {
	inner sentiment.Scorer
	mu    sync.Mutex
	calls int
}

func (c *countingScorer) Analyze(text string) sentiment.Result {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Analyze(text)
}

func TestDetail(t *testing.T) {
	scorer := &countingScorer{inner: sentiment.NewAnalyzer()}
	d := newTestDashboard(staticSource(fixture()), func(o *Options) { o.Scorer = scorer })

	if _, err := d.Detail("TSLA"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Detail before load err = %v, want ErrNotLoaded", err)
	}
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var selected string
	d.Events().Subscribe(func(e events.Event) {
		if e.Kind == events.EntitySelected {
			selected = e.Ticker
		}
	})

	before := scorer.calls
	det, err := d.Detail("$tsla")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if scorer.calls-before != 2 {
		t.Errorf("expected both Tesla articles rescored, got %d calls", scorer.calls-before)
	}
	if det.Company.Ticker != "TSLA" || len(det.Articles) != 2 {
		t.Fatalf("unexpected detail %+v", det)
	}
	if det.PositiveCount+det.NegativeCount+det.NeutralCount != len(det.Articles) {
		t.Error("sentiment counts do not add up")
	}
	if det.Articles[0].Relevance < det.Articles[1].Relevance {
		t.Error("articles not ordered by relevance")
	}
	if det.AnalysisURL != "https://pulse.example.com/advanced-analysis.html?symbol=TSLA" {
		t.Errorf("AnalysisURL = %q", det.AnalysisURL)
	}
	if det.PredictionURL != "https://pulse.example.com/trend-prediction.html?symbol=TSLA" {
		t.Errorf("PredictionURL = %q", det.PredictionURL)
	}
	if selected != "TSLA" {
		t.Errorf("EntitySelected ticker = %q", selected)
	}

	if _, err := d.Detail("ZZZZ"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("unknown ticker err = %v", err)
	}
	if _, err := d.Detail("XOM"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("unmentioned ticker err = %v", err)
	}
}

type memReadings struct{ got []cache.Reading }

func (m *memReadings) RecordReading(r cache.Reading) error {
	m.got = append(m.got, r)
	return nil
}

func TestLoadRecordsReading(t *testing.T) {
	rec := &memReadings{}
	d := newTestDashboard(staticSource(fixture()), func(o *Options) { o.Readings = rec })
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.got) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(rec.got))
	}
	r := rec.got[0]
	snap, _ := d.Snapshot()
	if r.RunID == "" || r.Index != snap.FearGreed.Index || r.Articles != len(fixture()) || !r.RecordedAt.Equal(fixedNow) {
		t.Errorf("unexpected reading %+v", r)
	}
}

func TestView(t *testing.T) {
	d := newTestDashboard(staticSource(fixture()))
	if v := d.View(); v.State != "idle" || v.Gauge.Position != 0.5 {
		t.Errorf("idle view = %+v", v)
	}
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := d.View()
	if v.State != "loaded" || v.Header.Articles != len(fixture()) {
		t.Errorf("header = %+v, state %s", v.Header, v.State)
	}
	if v.Gauge.Position < 0 || v.Gauge.Position > 1 {
		t.Errorf("gauge position %v out of range", v.Gauge.Position)
	}
	if len(v.Topics) == 0 {
		t.Fatal("expected topic cards")
	}
	for _, c := range v.Topics {
		sum := 0
		for _, n := range c.Sparkline {
			sum += n
		}
		if sum != c.Count {
			t.Errorf("%s sparkline sums to %d, count %d", c.Name, sum, c.Count)
		}
	}
	var sawBoeing bool
	for _, r := range v.Risks {
		sawBoeing = sawBoeing || r.Ticker == "BA"
	}
	if !sawBoeing {
		t.Errorf("expected BA among risks, got %+v", v.Risks)
	}
	for _, r := range v.Opportunities {
		if r.Ticker == "TSLA" {
			t.Error("TSLA has one positive and one negative mention and should not rank")
		}
	}
}
