package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	Init()
	Init()

	var r Recorder = Prometheus{}
	before := testutil.ToFloat64(Refreshes.WithLabelValues("error"))
	r.RecordRefresh(time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(Refreshes.WithLabelValues("error")); got != before+1 {
		t.Errorf("error refreshes = %v, want %v", got, before+1)
	}

	r.RecordSnapshot(12, -35, map[string]int{"Inflation": 4})
	if got := testutil.ToFloat64(FearGreedIndex); got != -35 {
		t.Errorf("index gauge = %v, want -35", got)
	}
	if got := testutil.ToFloat64(TopicMentions.WithLabelValues("Inflation")); got != 4 {
		t.Errorf("topic gauge = %v, want 4", got)
	}

	r.RecordFetchError("Reuters")
	if got := testutil.ToFloat64(FetchErrors.WithLabelValues("Reuters")); got < 1 {
		t.Errorf("fetch errors = %v, want >= 1", got)
	}
}

func TestHandlerServesSeries(t *testing.T) {
	Init()
	Prometheus{}.RecordIgnored()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "marketpulse_refreshes_total") {
		t.Error("metrics output missing marketpulse_refreshes_total")
	}
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	r.RecordRefresh(0, nil)
	r.RecordIgnored()
	r.RecordFetchError("x")
	r.RecordSnapshot(0, 0, nil)
}
