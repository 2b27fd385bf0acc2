package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/matheuskafuri/marketpulse/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewChecker(srv.Client()).WithBaseURL(srv.URL)
	if err != nil {
		t.Fatalf("WithBaseURL: %v", err)
	}
	return c
}

func TestCheckNewerRelease(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v1.2.0","html_url":"https://github.com/matheuskafuri/marketpulse/releases/tag/v1.2.0"}`)
	res := c.Check(context.Background(), "v1.1.0")
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.LatestVersion != "1.2.0" {
		t.Errorf("LatestVersion = %q, want 1.2.0", res.LatestVersion)
	}
	if res.URL == "" {
		t.Error("expected release URL")
	}
}

func TestCheckUpToDate(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	if res := c.Check(context.Background(), "1.2.0"); res != nil {
		t.Errorf("expected nil, got %+v", res)
	}
}

func TestCheckServerError(t *testing.T) {
	c := newTestChecker(t, http.StatusInternalServerError, `{"message":"boom"}`)
	if res := c.Check(context.Background(), "1.0.0"); res != nil {
		t.Errorf("expected nil on error, got %+v", res)
	}
}
