// Package sentiment scores short headline text against positive and negative
// keyword lists.
package sentiment

import (
	"strings"
	"unicode"
)

// Sentiment is the classification of a scored text.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Weight is added (positive) or subtracted (negative) for every keyword hit.
const Weight = 10

// Result is the outcome of scoring one text.
type Result struct {
	Sentiment Sentiment `json:"sentiment"`
	Score     int       `json:"score"`
}

// Scorer scores text. Implementations must be deterministic.
type Scorer interface {
	Analyze(text string) Result
}

// Analyzer is the table-driven keyword Scorer.
type Analyzer struct {
	positiveWords   map[string]bool
	negativeWords   map[string]bool
	positivePhrases []string
	negativePhrases []string
}

// NewAnalyzer returns an Analyzer over the built-in finance vocabulary.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWith(positiveKeywords, negativeKeywords)
}

// NewAnalyzerWith builds an Analyzer from custom keyword lists. Keywords
// containing a space are matched as phrases against the whole text.
func NewAnalyzerWith(positive, negative []string) *Analyzer {
	a := &Analyzer{
		positiveWords: map[string]bool{},
		negativeWords: map[string]bool{},
	}
	for _, kw := range positive {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if strings.Contains(kw, " ") {
			a.positivePhrases = append(a.positivePhrases, kw)
		} else if kw != "" {
			a.positiveWords[kw] = true
		}
	}
	for _, kw := range negative {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if strings.Contains(kw, " ") {
			a.negativePhrases = append(a.negativePhrases, kw)
		} else if kw != "" {
			a.negativeWords[kw] = true
		}
	}
	return a
}

// Analyze scores text: +Weight per positive hit, -Weight per negative hit.
// A matched phrase is one hit; its words are not scored again on their own.
func (a *Analyzer) Analyze(text string) Result {
	rest := strings.ToLower(text)
	score := 0
	for _, p := range a.positivePhrases {
		if n := strings.Count(rest, p); n > 0 {
			score += Weight * n
			rest = strings.ReplaceAll(rest, p, " ")
		}
	}
	for _, p := range a.negativePhrases {
		if n := strings.Count(rest, p); n > 0 {
			score -= Weight * n
			rest = strings.ReplaceAll(rest, p, " ")
		}
	}
	for _, tok := range tokenize(rest) {
		switch {
		case a.positiveWords[tok]:
			score += Weight
		case a.negativeWords[tok]:
			score -= Weight
		}
	}
	return Result{Sentiment: Classify(score), Score: score}
}

// Classify maps a score to its sentiment by sign.
func Classify(score int) Sentiment {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
