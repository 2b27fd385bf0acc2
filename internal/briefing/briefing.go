// Package briefing builds the header shown above the dashboard: a greeting,
// what was scanned, the busiest sources, emerging terms and the top stories.
package briefing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/signal"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

// Briefing is the dashboard header.
type Briefing struct {
	DateLabel     string   `json:"date_label"`
	Greeting      string   `json:"greeting"`
	Count         int      `json:"count"`
	ActiveSources string   `json:"active_sources"`
	Emerging      []string `json:"emerging"`
	Top           []Card   `json:"top"`
}

// Card is one of the top stories by signal score.
type Card struct {
	Article cache.Article `json:"article"`
	Index   int           `json:"index"`
	Score   float64       `json:"score"`
}

// Opts configures Build.
type Opts struct {
	Articles []cache.Article
	// History is the corpus used for document frequency. Articles is used
	// when empty.
	History       []cache.Article
	Topics        []topics.Topic
	SourceWeights map[string]float64
	Size          int
	Now           time.Time
}

// Build assembles the briefing. It does not modify opts.Articles.
func Build(opts Opts) Briefing {
	if opts.Size <= 0 {
		opts.Size = 5
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	b := Briefing{
		DateLabel: opts.Now.Format("Mon Jan 2"),
		Greeting:  greeting(opts.Now),
		Count:     len(opts.Articles),
		Emerging:  []string{},
		Top:       []Card{},
	}
	if len(opts.Articles) == 0 {
		return b
	}

	b.ActiveSources = activeSources(opts.Articles)

	history := opts.History
	if len(history) == 0 {
		history = opts.Articles
	}
	b.Emerging = emerging(opts.Articles, history, opts.Topics)

	cards := make([]Card, len(opts.Articles))
	for i, a := range opts.Articles {
		cards[i] = Card{
			Article: a,
			Score: signal.ScoreAt(signal.Input{
				Title:       a.Title,
				Description: a.Description,
				Source:      a.Source,
				Published:   a.Published,
			}, opts.SourceWeights, opts.Now).Final,
		}
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Score > cards[j].Score
	})
	if len(cards) > opts.Size {
		cards = cards[:opts.Size]
	}
	for i := range cards {
		cards[i].Index = i + 1
	}
	b.Top = cards
	return b
}

// DescriptionExcerpt returns the first sentence of a description.
func DescriptionExcerpt(desc string) string {
	if desc == "" {
		return ""
	}
	for i, c := range desc {
		if c == '.' && i > 20 {
			return desc[:i+1]
		}
	}
	runes := []rune(desc)
	if len(runes) > 150 {
		return string(runes[:150]) + "..."
	}
	return desc
}

func greeting(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func activeSources(articles []cache.Article) string {
	counts := map[string]int{}
	for _, a := range articles {
		counts[a.Source]++
	}

	type sc struct {
		name  string
		count int
	}
	var sorted []sc
	for name, count := range counts {
		sorted = append(sorted, sc{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})

	limit := min(3, len(sorted))
	parts := make([]string, limit)
	for i := 0; i < limit; i++ {
		parts[i] = fmt.Sprintf("%s (%d)", sorted[i].name, sorted[i].count)
	}
	return strings.Join(parts, ", ")
}

// emerging extracts the top TF-IDF title terms of articles against history,
// skipping terms the topic table already tracks.
func emerging(articles, history []cache.Article, table []topics.Topic) []string {
	df := map[string]int{}
	for _, a := range history {
		seen := map[string]bool{}
		for _, w := range tokenize(a.Title) {
			if !seen[w] {
				df[w]++
				seen[w] = true
			}
		}
	}

	tf := map[string]int{}
	for _, a := range articles {
		for _, w := range tokenize(a.Title) {
			tf[w]++
		}
	}

	totalDocs := max(len(history), 1)

	type scored struct {
		term  string
		score float64
	}
	var terms []scored
	for term, freq := range tf {
		if freq < 2 || tracked(term, table) {
			continue
		}
		docFreq := max(df[term], 1)
		idf := math.Log(float64(totalDocs)/float64(docFreq)) + 1
		terms = append(terms, scored{term, float64(freq) * idf})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].term < terms[j].term
	})

	out := []string{}
	for i := 0; i < len(terms) && i < 3; i++ {
		out = append(out, terms[i].term)
	}
	return out
}

func tracked(term string, table []topics.Topic) bool {
	for _, t := range table {
		if strings.EqualFold(t.Name, term) {
			return true
		}
		for _, kw := range t.Keywords {
			if strings.Contains(strings.ToLower(kw), term) {
				return true
			}
		}
	}
	return false
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "its": true,
	"this": true, "that": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "not": true, "no": true, "nor": true,
	"how": true, "what": true, "when": true, "where": true, "who": true, "which": true,
	"why": true, "all": true, "each": true, "every": true, "both": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true, "than": true,
	"too": true, "very": true, "just": true, "about": true, "into": true, "over": true,
	"after": true, "before": true, "between": true, "under": true, "above": true,
	"out": true, "up": true, "down": true, "off": true, "our": true, "your": true,
	"we": true, "you": true, "they": true, "them": true, "their": true, "new": true,
	"says": true, "said": true, "amid": true, "year": true, "week": true,
	"stocks": true, "shares": true, "market": true, "markets": true,
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(word) < 4 {
			continue
		}
		if stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
