// Package topics counts keyword clusters across headlines and compares the
// last week of activity against the week before.
package topics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matheuskafuri/marketpulse/internal/cache"
)

// Trend is the week-over-week direction of a topic.
type Trend string

const (
	Up     Trend = "up"
	Down   Trend = "down"
	Flat   Trend = "neutral"
	window       = 7
	// A change within this many percent either way is reported as Flat.
	threshold = 10.0
)

// Topic is one row of the topic table.
type Topic struct {
	Name     string
	Icon     string
	Keywords []string
}

// Point is one day on a topic timeline.
type Point struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stat is the detected activity for one topic.
type Stat struct {
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Count      int             `json:"count"`
	Articles   []cache.Article `json:"articles"`
	DailyCount map[string]int  `json:"daily_count"`
	Trend      Trend           `json:"trend"`
	Change     float64         `json:"change"`
	Timeline   []Point         `json:"timeline"`
}

// Detect scans every title against table. An article counts at most once per
// topic. Topics with no matches are left out; the rest are ordered by count,
// ties keeping table order.
func Detect(articles []cache.Article, table []Topic) []Stat {
	stats := make([]Stat, 0, len(table))
	for _, topic := range table {
		s := Stat{
			Name:       topic.Name,
			Icon:       topic.Icon,
			DailyCount: map[string]int{},
		}
		for _, a := range articles {
			if !matches(" "+strings.ToLower(a.Title)+" ", topic.Keywords) {
				continue
			}
			s.Count++
			s.Articles = append(s.Articles, a)
			s.DailyCount[a.Published.UTC().Format("2006-01-02")]++
		}
		if s.Count == 0 {
			continue
		}
		s.Timeline = timeline(s.DailyCount)
		s.Trend, s.Change = trend(s.Timeline)
		stats = append(stats, s)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// Filter returns the stats whose name equals name, case-insensitively.
func Filter(stats []Stat, name string) []Stat {
	var out []Stat
	for _, s := range stats {
		if strings.EqualFold(s.Name, name) {
			out = append(out, s)
		}
	}
	return out
}

// matches expects title lowercased and padded with a space on both ends, so
// keywords may carry spaces to anchor on word boundaries.
func matches(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func timeline(daily map[string]int) []Point {
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	points := make([]Point, len(dates))
	for i, d := range dates {
		points[i] = Point{Date: d, Count: daily[d]}
	}
	return points
}

// trend compares the last seven date buckets with the seven before them.
func trend(points []Point) (Trend, float64) {
	end := len(points)
	recentStart := max(end-window, 0)
	previousStart := max(recentStart-window, 0)

	recent, previous := 0, 0
	for _, p := range points[recentStart:end] {
		recent += p.Count
	}
	for _, p := range points[previousStart:recentStart] {
		previous += p.Count
	}

	var change float64
	switch {
	case previous > 0:
		change = float64(recent-previous) / float64(previous) * 100
	case recent > 0:
		return Up, 100
	}
	switch {
	case change > threshold:
		return Up, change
	case change < -threshold:
		return Down, change
	default:
		return Flat, change
	}
}

// Aliases maps short CLI names to topic names.
var Aliases = map[string]string{
	"cuts":      "Rate Cuts",
	"hikes":     "Rate Hikes",
	"inflation": "Inflation",
	"recession": "Recession",
	"earnings":  "Earnings",
	"jobs":      "Jobs",
	"ai":        "AI",
	"crypto":    "Crypto",
	"oil":       "Oil & Energy",
	"energy":    "Oil & Energy",
	"trade":     "Tariffs & Trade",
	"tariffs":   "Tariffs & Trade",
	"housing":   "Housing",
	"banks":     "Banking",
	"banking":   "Banking",
	"mna":       "Mergers & Acquisitions",
	"deals":     "Mergers & Acquisitions",
	"ipo":       "IPOs",
}

// ResolveAlias maps a CLI alias or a full topic name to a topic in table.
func ResolveAlias(alias string, table []Topic) (string, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if name, ok := Aliases[alias]; ok {
		return name, nil
	}
	for _, t := range table {
		if strings.EqualFold(t.Name, alias) {
			return t.Name, nil
		}
	}
	valid := make([]string, 0, len(Aliases))
	for k := range Aliases {
		valid = append(valid, k)
	}
	sort.Strings(valid)
	return "", fmt.Errorf("unknown topic %q (valid: %s)", alias, strings.Join(valid, ", "))
}
