// Package ranking folds per-article entity sentiment into company aggregates
// and ranks them into opportunities and risks.
package ranking

import (
	"math"
	"sort"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/entity"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
)

// Level tags a ranked entry by magnitude.
type Level string

const (
	High   Level = "High"
	Medium Level = "Medium"
)

const (
	// TopN caps each ranked list.
	TopN = 5
	// HighThreshold is the absolute total sentiment above which an entry is High.
	HighThreshold = 30
)

// Input pairs an article with its extracted entities and sentiment.
type Input struct {
	Article   cache.Article
	Entities  entity.Match
	Sentiment sentiment.Result
}

// Aggregate accumulates sentiment for one company across articles.
type Aggregate struct {
	Name           string          `json:"name"`
	Ticker         string          `json:"ticker"`
	Articles       []cache.Article `json:"articles"`
	PositiveCount  int             `json:"positive_count"`
	NegativeCount  int             `json:"negative_count"`
	NeutralCount   int             `json:"neutral_count"`
	TotalSentiment int             `json:"total_sentiment"`
}

// AvgSentiment is the rounded mean score per article.
func (a Aggregate) AvgSentiment() int {
	if len(a.Articles) == 0 {
		return 0
	}
	return int(math.Round(float64(a.TotalSentiment) / float64(len(a.Articles))))
}

// Entry is a ranked aggregate.
type Entry struct {
	Aggregate
	Level Level `json:"level"`
}

// Result holds both ranked lists.
type Result struct {
	Opportunities []Entry `json:"opportunities"`
	Risks         []Entry `json:"risks"`
}

// Fold builds one aggregate per company ticker, in first-seen order. An
// article mentioning a company once contributes once to its aggregate.
func Fold(inputs []Input) []Aggregate {
	var out []Aggregate
	index := map[string]int{}
	for _, in := range inputs {
		for _, c := range in.Entities.Companies {
			i, ok := index[c.Ticker]
			if !ok {
				i = len(out)
				index[c.Ticker] = i
				out = append(out, Aggregate{Name: c.Name, Ticker: c.Ticker})
			}
			agg := &out[i]
			agg.Articles = append(agg.Articles, in.Article)
			agg.TotalSentiment += in.Sentiment.Score
			switch in.Sentiment.Sentiment {
			case sentiment.Positive:
				agg.PositiveCount++
			case sentiment.Negative:
				agg.NegativeCount++
			default:
				agg.NeutralCount++
			}
		}
	}
	return out
}

// Rank selects the top opportunities and risks from aggs.
func Rank(aggs []Aggregate) Result {
	res := Result{Opportunities: []Entry{}, Risks: []Entry{}}
	var opps, risks []Aggregate
	for _, a := range aggs {
		switch {
		case a.PositiveCount > a.NegativeCount:
			opps = append(opps, a)
		case a.NegativeCount > a.PositiveCount:
			risks = append(risks, a)
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].TotalSentiment > opps[j].TotalSentiment
	})
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].TotalSentiment < risks[j].TotalSentiment
	})

	for i, a := range opps {
		if i == TopN {
			break
		}
		lvl := Medium
		if a.TotalSentiment > HighThreshold {
			lvl = High
		}
		res.Opportunities = append(res.Opportunities, Entry{Aggregate: a, Level: lvl})
	}
	for i, a := range risks {
		if i == TopN {
			break
		}
		lvl := Medium
		if a.TotalSentiment < -HighThreshold {
			lvl = High
		}
		res.Risks = append(res.Risks, Entry{Aggregate: a, Level: lvl})
	}
	return res
}
