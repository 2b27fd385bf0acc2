package dashboard

import (
	"fmt"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/briefing"
	"github.com/matheuskafuri/marketpulse/internal/feargreed"
	"github.com/matheuskafuri/marketpulse/internal/ranking"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

// sparklineDays caps the series on a topic card.
const sparklineDays = 14

// View is the renderer-independent dashboard model shared by the TUI, the
// text snapshot and the HTTP API.
type View struct {
	State         string          `json:"state"`
	Error         string          `json:"error,omitempty"`
	Header        Header          `json:"header"`
	Gauge         Gauge           `json:"gauge"`
	Topics        []TopicCard     `json:"topics"`
	Opportunities []EntityRow     `json:"opportunities"`
	Risks         []EntityRow     `json:"risks"`
	Top           []briefing.Card `json:"top"`
}

type Header struct {
	Greeting      string    `json:"greeting"`
	DateLabel     string    `json:"date_label"`
	Articles      int       `json:"articles"`
	ActiveSources string    `json:"active_sources"`
	Emerging      []string  `json:"emerging"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Gauge is the fear/greed meter. Position maps the index onto 0..1.
type Gauge struct {
	Index       int               `json:"index"`
	Label       string            `json:"label"`
	Position    float64           `json:"position"`
	FearCount   int               `json:"fear_count"`
	GreedCount  int               `json:"greed_count"`
	Neutral     int               `json:"neutral_count"`
	PositivePct float64           `json:"positive_pct"`
	NegativePct float64           `json:"negative_pct"`
	NeutralPct  float64           `json:"neutral_pct"`
	Timeline    []feargreed.Point `json:"timeline"`
}

type TopicCard struct {
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	Count       int          `json:"count"`
	Trend       topics.Trend `json:"trend"`
	Change      float64      `json:"change"`
	ChangeLabel string       `json:"change_label"`
	Sparkline   []int        `json:"sparkline"`
	Headlines   []string     `json:"headlines"`
}

type EntityRow struct {
	Name     string        `json:"name"`
	Ticker   string        `json:"ticker"`
	Level    ranking.Level `json:"level"`
	Mentions int           `json:"mentions"`
	Positive int           `json:"positive"`
	Negative int           `json:"negative"`
	Neutral  int           `json:"neutral"`
	Total    int           `json:"total_sentiment"`
	Avg      int           `json:"avg_sentiment"`
}

// View returns the model for the current state. Without a snapshot only
// State and Error are meaningful.
func (d *Dashboard) View() View {
	d.mu.RLock()
	state, err, snap := d.state, d.err, d.snapshot
	d.mu.RUnlock()

	var v View
	if snap != nil {
		v = BuildView(*snap)
	} else {
		v = emptyView()
	}
	v.State = state.String()
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

func emptyView() View {
	return View{
		Header:        Header{Emerging: []string{}},
		Gauge:         Gauge{Label: feargreed.Neutral, Position: 0.5, Timeline: []feargreed.Point{}},
		Topics:        []TopicCard{},
		Opportunities: []EntityRow{},
		Risks:         []EntityRow{},
		Top:           []briefing.Card{},
	}
}

// BuildView projects a snapshot onto the view model.
func BuildView(s Snapshot) View {
	v := emptyView()
	v.State = Loaded.String()
	b := s.Briefing
	v.Header = Header{
		Greeting:      b.Greeting,
		DateLabel:     b.DateLabel,
		Articles:      len(s.Articles),
		ActiveSources: b.ActiveSources,
		Emerging:      b.Emerging,
		GeneratedAt:   s.GeneratedAt,
	}
	if v.Header.Emerging == nil {
		v.Header.Emerging = []string{}
	}
	if b.Top != nil {
		v.Top = b.Top
	}

	fg := s.FearGreed
	v.Gauge = Gauge{
		Index:       fg.Index,
		Label:       fg.Label,
		Position:    float64(fg.Index+100) / 200,
		FearCount:   fg.FearCount,
		GreedCount:  fg.GreedCount,
		Neutral:     fg.NeutralCount,
		PositivePct: fg.Distribution.Percent(fg.Distribution.Positive),
		NegativePct: fg.Distribution.Percent(fg.Distribution.Negative),
		NeutralPct:  fg.Distribution.Percent(fg.Distribution.Neutral),
		Timeline:    fg.Timeline,
	}
	if v.Gauge.Timeline == nil {
		v.Gauge.Timeline = []feargreed.Point{}
	}

	for _, st := range s.Topics {
		v.Topics = append(v.Topics, topicCard(st))
	}
	for _, e := range s.Ranking.Opportunities {
		v.Opportunities = append(v.Opportunities, entityRow(e))
	}
	for _, e := range s.Ranking.Risks {
		v.Risks = append(v.Risks, entityRow(e))
	}
	return v
}

func topicCard(st topics.Stat) TopicCard {
	points := st.Timeline
	if len(points) > sparklineDays {
		points = points[len(points)-sparklineDays:]
	}
	spark := make([]int, len(points))
	for i, p := range points {
		spark[i] = p.Count
	}
	headlines := []string{}
	for i := 0; i < len(st.Articles) && i < 3; i++ {
		headlines = append(headlines, st.Articles[i].Title)
	}
	return TopicCard{
		Name:        st.Name,
		Icon:        st.Icon,
		Count:       st.Count,
		Trend:       st.Trend,
		Change:      st.Change,
		ChangeLabel: fmt.Sprintf("%+.0f%%", st.Change),
		Sparkline:   spark,
		Headlines:   headlines,
	}
}

func entityRow(e ranking.Entry) EntityRow {
	return EntityRow{
		Name:     e.Name,
		Ticker:   e.Ticker,
		Level:    e.Level,
		Mentions: len(e.Articles),
		Positive: e.PositiveCount,
		Negative: e.NegativeCount,
		Neutral:  e.NeutralCount,
		Total:    e.TotalSentiment,
		Avg:      e.AvgSentiment(),
	}
}
