// Package feargreed turns headline sentiment into a single -100..100 index.
package feargreed

import (
	"math"
	"sort"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
)

// Labels, from most fearful to most greedy.
const (
	ExtremeFear  = "Extreme Fear"
	Fear         = "Fear"
	Neutral      = "Neutral"
	Greed        = "Greed"
	ExtremeGreed = "Extreme Greed"
)

// Distribution counts articles per sentiment class.
type Distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Percent returns the share of n in the distribution, 0 when empty.
func (d Distribution) Percent(n int) float64 {
	total := d.Positive + d.Negative + d.Neutral
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Point is one day on the index timeline.
type Point struct {
	Date  string `json:"date"`
	Index int    `json:"index"`
}

// Data is the computed market mood.
type Data struct {
	Index        int          `json:"index"`
	Label        string       `json:"label"`
	FearCount    int          `json:"fear_count"`
	GreedCount   int          `json:"greed_count"`
	NeutralCount int          `json:"neutral_count"`
	Distribution Distribution `json:"distribution"`
	Timeline     []Point      `json:"timeline"`
}

// Calculator computes Data from article titles.
type Calculator struct {
	scorer sentiment.Scorer
}

// New returns a Calculator scoring titles with s.
func New(s sentiment.Scorer) *Calculator {
	return &Calculator{scorer: s}
}

// Calculate scores every title once and derives the index, the label and a
// per-day timeline. An empty input yields a zero, Neutral reading.
func (c *Calculator) Calculate(articles []cache.Article) Data {
	d := Data{Label: Neutral, Timeline: []Point{}}
	if len(articles) == 0 {
		return d
	}

	type bucket struct{ greed, fear, total int }
	days := map[string]*bucket{}

	for _, a := range articles {
		r := c.scorer.Analyze(a.Title)
		day := a.Published.UTC().Format("2006-01-02")
		b := days[day]
		if b == nil {
			b = &bucket{}
			days[day] = b
		}
		b.total++
		switch r.Sentiment {
		case sentiment.Positive:
			d.GreedCount++
			b.greed++
		case sentiment.Negative:
			d.FearCount++
			b.fear++
		default:
			d.NeutralCount++
		}
	}

	d.Index = Index(d.GreedCount, d.FearCount, len(articles))
	d.Label = Label(d.Index)
	d.Distribution = Distribution{
		Positive: d.GreedCount,
		Negative: d.FearCount,
		Neutral:  d.NeutralCount,
	}

	dates := make([]string, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Strings(dates)
	for _, day := range dates {
		b := days[day]
		d.Timeline = append(d.Timeline, Point{Date: day, Index: Index(b.greed, b.fear, b.total)})
	}
	return d
}

// Index is round((greed-fear)/total*100) clamped to [-100, 100].
func Index(greed, fear, total int) int {
	if total <= 0 {
		return 0
	}
	v := int(math.Round(float64(greed-fear) / float64(total) * 100))
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}

// Label maps an index to its mood label.
func Label(index int) string {
	switch {
	case index <= -50:
		return ExtremeFear
	case index <= -10:
		return Fear
	case index < 10:
		return Neutral
	case index < 50:
		return Greed
	default:
		return ExtremeGreed
	}
}
