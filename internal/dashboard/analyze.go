// Package dashboard sequences the analytics pipeline over one article set and
// owns the loaded state between refreshes.
package dashboard

import (
	"time"

	"github.com/matheuskafuri/marketpulse/internal/briefing"
	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/entity"
	"github.com/matheuskafuri/marketpulse/internal/feargreed"
	"github.com/matheuskafuri/marketpulse/internal/ranking"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

// Deps are the analyzers Analyze runs with.
type Deps struct {
	Entities      *entity.Database
	Scorer        sentiment.Scorer
	Topics        []topics.Topic
	SourceWeights map[string]float64
	BriefSize     int
	// Now stamps the snapshot and drives time-relative scoring.
	Now time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Entities == nil {
		d.Entities = entity.Default()
	}
	if d.Scorer == nil {
		d.Scorer = sentiment.NewAnalyzer()
	}
	if d.Topics == nil {
		d.Topics = topics.Default()
	}
	if d.Now.IsZero() {
		d.Now = time.Now()
	}
	return d
}

// Snapshot is everything derived from one article set.
type Snapshot struct {
	Articles    []cache.Article     `json:"articles"`
	Briefing    briefing.Briefing   `json:"briefing"`
	Topics      []topics.Stat       `json:"topics"`
	FearGreed   feargreed.Data      `json:"fear_greed"`
	Aggregates  []ranking.Aggregate `json:"-"`
	Ranking     ranking.Result      `json:"ranking"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Analyze runs extraction, scoring, topic detection, the fear/greed gauge and
// ranking over articles. It has no side effects: the same articles and deps
// always produce the same snapshot.
func Analyze(articles []cache.Article, deps Deps) Snapshot {
	deps = deps.withDefaults()
	if articles == nil {
		articles = []cache.Article{}
	}

	inputs := make([]ranking.Input, len(articles))
	for i, a := range articles {
		inputs[i] = ranking.Input{
			Article:   a,
			Entities:  deps.Entities.Extract(a.Title),
			Sentiment: deps.Scorer.Analyze(a.Title),
		}
	}
	aggs := ranking.Fold(inputs)

	stats := topics.Detect(articles, deps.Topics)

	return Snapshot{
		Articles: articles,
		Briefing: briefing.Build(briefing.Opts{
			Articles:      articles,
			Topics:        deps.Topics,
			SourceWeights: deps.SourceWeights,
			Size:          deps.BriefSize,
			Now:           deps.Now,
		}),
		Topics:      stats,
		FearGreed:   feargreed.New(deps.Scorer).Calculate(articles),
		Aggregates:  aggs,
		Ranking:     ranking.Rank(aggs),
		GeneratedAt: deps.Now,
	}
}
