// Package signal rates how relevant a headline is to a market reader on a
// 0 to 10 scale.
package signal

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// SourceWeights maps source names to their weight (0.0–1.0).
type SourceWeights map[string]float64

// Input holds the data needed to score an article.
type Input struct {
	Title       string
	Description string
	Source      string
	Published   time.Time
}

// Breakdown shows how each component contributed to the final score.
type Breakdown struct {
	Recency        float64
	SourceWeight   float64
	Depth          float64
	KeywordDensity float64
	Final          float64
}

const (
	weightRecency  = 0.30
	weightSource   = 0.25
	weightDepth    = 0.15
	weightKeywords = 0.30
)

// Score computes a signal score (0.0–10.0) for an article as of now.
func Score(input Input, weights SourceWeights) float64 {
	return ScoreAt(input, weights, time.Now()).Final
}

// ScoreAt computes a signal score with component details relative to now.
func ScoreAt(input Input, weights SourceWeights, now time.Time) Breakdown {
	b := Breakdown{
		Recency:        recencyScore(input.Published, now),
		SourceWeight:   sourceScore(input.Source, weights),
		Depth:          depthScore(input.Description),
		KeywordDensity: keywordScore(input.Title, input.Description),
	}
	raw := b.Recency*weightRecency +
		b.SourceWeight*weightSource +
		b.Depth*weightDepth +
		b.KeywordDensity*weightKeywords
	b.Final = math.Round(raw*100) / 10
	return b
}

// recencyScore halves every 12 hours; market news goes stale quickly.
func recencyScore(published, now time.Time) float64 {
	if published.IsZero() {
		return 0.0
	}
	hours := now.Sub(published).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Exp(math.Ln2 / -12 * hours)
}

func sourceScore(source string, weights SourceWeights) float64 {
	if w, ok := weights[source]; ok {
		return w
	}
	return 0.5
}

// depthScore scores by description word count. Feed descriptions are capped
// at a few hundred characters, so the bands are narrow.
func depthScore(description string) float64 {
	words := len(strings.Fields(description))
	switch {
	case words >= 40:
		return 1.0
	case words >= 15:
		return 0.6
	default:
		return 0.2
	}
}

var marketKeywords = map[string]bool{
	"earnings": true, "revenue": true, "guidance": true, "profit": true,
	"forecast": true, "outlook": true, "estimates": true, "quarter": true,
	"quarterly": true, "shares": true, "stock": true, "stocks": true,
	"market": true, "markets": true, "index": true, "futures": true,
	"bond": true, "bonds": true, "yields": true, "treasury": true,
	"fed": true, "rates": true, "inflation": true, "gdp": true,
	"payrolls": true, "unemployment": true, "tariffs": true, "oil": true,
	"crude": true, "dollar": true, "currency": true, "investors": true,
	"analysts": true, "upgrade": true, "downgrade": true, "dividend": true,
	"buyback": true, "merger": true, "acquisition": true, "ipo": true,
	"sec": true, "regulators": true, "bitcoin": true, "valuation": true,
}

// keywordScore returns the density of market keywords (0.0–1.0).
func keywordScore(title, description string) float64 {
	text := strings.ToLower(title + " " + description)
	var words []string
	for _, w := range strings.Fields(text) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0.0
	}

	hits := 0
	for _, w := range words {
		if marketKeywords[w] {
			hits++
		}
	}
	// 10%+ keyword density = 1.0
	score := float64(hits) / float64(len(words)) * 10
	if score > 1.0 {
		score = 1.0
	}
	return score
}
