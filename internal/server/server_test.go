package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/feargreed"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

func articles() []cache.Article {
	return []cache.Article{
		{ID: "1", Source: "Reuters", Title: "Tesla shares surge after strong delivery numbers", Link: "https://n/1", Published: now.Add(-time.Hour)},
		{ID: "2", Source: "CNBC", Title: "Markets fear recession after GDP decline", Link: "https://n/2", Published: now.Add(-2 * time.Hour)},
		{ID: "3", Source: "CNBC", Title: "Bitcoin rallies as crypto funds see inflows", Link: "https://n/3", Published: now.Add(-3 * time.Hour)},
	}
}

func newServer(t *testing.T, src dashboard.Source, load bool) (*Server, *dashboard.Dashboard) {
	t.Helper()
	d := dashboard.New(dashboard.Options{
		Source: src,
		Log:    logger.Nop(),
		Now:    func() time.Time { return now },
	})
	if load {
		if err := d.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	return New(d, logger.Nop()), d
}

func ok() dashboard.Source {
	return dashboard.SourceFunc(func(context.Context) ([]cache.Article, error) { return articles(), nil })
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, ok(), false)
	rec := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" || body["state"] != "idle" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestDashboard(t *testing.T) {
	s, _ := newServer(t, ok(), true)
	rec := do(t, s, http.MethodGet, "/api/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var v dashboard.View
	decode(t, rec, &v)
	if v.State != "loaded" || v.Header.Articles != 3 {
		t.Errorf("view = %+v", v)
	}
	if len(v.Opportunities) == 0 || v.Opportunities[0].Ticker != "TSLA" {
		t.Errorf("opportunities = %+v", v.Opportunities)
	}
}

func TestTopics(t *testing.T) {
	s, _ := newServer(t, ok(), true)

	var all []topics.Stat
	rec := do(t, s, http.MethodGet, "/api/topics")
	decode(t, rec, &all)
	if len(all) < 2 {
		t.Fatalf("expected at least 2 topics, got %d", len(all))
	}

	var crypto []topics.Stat
	rec = do(t, s, http.MethodGet, "/api/topics?topic=crypto")
	decode(t, rec, &crypto)
	if len(crypto) != 1 || crypto[0].Name != "Crypto" {
		t.Errorf("filtered topics = %+v", crypto)
	}

	if rec := do(t, s, http.MethodGet, "/api/topics?topic=bogus"); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus topic status = %d, want 400", rec.Code)
	}
}

func TestFearGreed(t *testing.T) {
	s, _ := newServer(t, ok(), true)
	rec := do(t, s, http.MethodGet, "/api/feargreed")
	var fg feargreed.Data
	decode(t, rec, &fg)
	if fg.GreedCount != 2 || fg.FearCount != 1 {
		t.Errorf("fear/greed = %+v", fg)
	}
}

func TestNotLoaded(t *testing.T) {
	s, _ := newServer(t, ok(), false)
	for _, path := range []string{"/api/topics", "/api/feargreed", "/api/entities/TSLA"} {
		if rec := do(t, s, http.MethodGet, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rec.Code)
		}
	}
}

func TestEntity(t *testing.T) {
	s, _ := newServer(t, ok(), true)
	rec := do(t, s, http.MethodGet, "/api/entities/tsla")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var det dashboard.Detail
	decode(t, rec, &det)
	if det.Company.Ticker != "TSLA" || len(det.Articles) != 1 {
		t.Errorf("detail = %+v", det)
	}

	if rec := do(t, s, http.MethodGet, "/api/entities/NOPE"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown ticker status = %d, want 404", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	s, _ := newServer(t, ok(), false)
	rec := do(t, s, http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["articles"].(float64) != 3 {
		t.Errorf("body = %v", body)
	}
}

func TestRefreshFailure(t *testing.T) {
	src := dashboard.SourceFunc(func(context.Context) ([]cache.Article, error) {
		return nil, errors.New("upstream down")
	})
	s, _ := newServer(t, src, false)
	if rec := do(t, s, http.MethodPost, "/api/refresh"); rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/dashboard")
	var v dashboard.View
	decode(t, rec, &v)
	if v.State != "failed" || v.Error == "" {
		t.Errorf("view after failure = %+v", v)
	}
}

func TestRefreshOutlivesCancelledRequest(t *testing.T) {
	src := dashboard.SourceFunc(func(ctx context.Context) ([]cache.Article, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return articles(), nil
	})
	s, _ := newServer(t, src, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil).WithContext(ctx))
	if rec.Code != http.StatusAccepted {
		t.Errorf("refresh status = %d, want 202", rec.Code)
	}

	if rec := do(t, s, http.MethodGet, "/api/feargreed"); rec.Code != http.StatusOK {
		t.Errorf("feargreed status = %d, want 200", rec.Code)
	}
}

func TestRefreshConflict(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := dashboard.SourceFunc(func(context.Context) ([]cache.Article, error) {
		close(entered)
		<-release
		return articles(), nil
	})
	s, d := newServer(t, src, false)

	done := make(chan error, 1)
	go func() { done <- d.Refresh(context.Background()) }()
	<-entered
	rec := do(t, s, http.MethodPost, "/api/refresh")
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newServer(t, ok(), false)
	if rec := do(t, s, http.MethodOptions, "/api/dashboard"); rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newServer(t, ok(), false)
	if rec := do(t, s, http.MethodGet, "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}
