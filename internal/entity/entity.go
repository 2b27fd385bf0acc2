// Package entity recognizes companies, tickers and countries in headline text
// using a static alias table.
package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Company is a listed company known to the database.
type Company struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Match is the set of entities found in one piece of text.
type Match struct {
	Companies []Company `json:"companies"`
	Countries []string  `json:"countries"`
	Tickers   []string  `json:"tickers"`
}

// Empty reports whether nothing was recognized.
func (m Match) Empty() bool {
	return len(m.Companies) == 0 && len(m.Countries) == 0 && len(m.Tickers) == 0
}

type companyEntry struct {
	Company
	aliases []string
}

type countryEntry struct {
	name    string
	aliases []string
}

// Database is an immutable alias table. It is safe for concurrent use.
type Database struct {
	companies []companyEntry
	countries []countryEntry
	byTicker  map[string]Company
}

// Default returns the built-in database.
func Default() *Database {
	return newDatabase(defaultCompanies, defaultCountries)
}

func newDatabase(companies []companyEntry, countries []countryEntry) *Database {
	db := &Database{
		companies: companies,
		countries: countries,
		byTicker:  make(map[string]Company, len(companies)),
	}
	for _, c := range companies {
		if _, ok := db.byTicker[c.Ticker]; !ok {
			db.byTicker[c.Ticker] = c.Company
		}
	}
	return db
}

// Lookup returns the company registered under ticker.
func (db *Database) Lookup(ticker string) (Company, bool) {
	c, ok := db.byTicker[strings.ToUpper(strings.TrimPrefix(ticker, "$"))]
	return c, ok
}

// Extract returns every company, country and ticker whose alias occurs in text.
// Matching is case-insensitive and anchored on word boundaries; the first
// table entry to match a ticker wins.
func (db *Database) Extract(text string) Match {
	var m Match
	if strings.TrimSpace(text) == "" {
		return m
	}
	lower := normalize(text)

	seenTicker := map[string]bool{}
	for _, c := range db.companies {
		if seenTicker[c.Ticker] {
			continue
		}
		for _, alias := range c.aliases {
			if containsWord(lower, alias) {
				m.Companies = append(m.Companies, c.Company)
				m.Tickers = append(m.Tickers, c.Ticker)
				seenTicker[c.Ticker] = true
				break
			}
		}
	}

	// $TSLA style mentions of known tickers.
	for _, tag := range cashtags(text) {
		c, ok := db.byTicker[tag]
		if !ok || seenTicker[tag] {
			continue
		}
		m.Companies = append(m.Companies, c)
		m.Tickers = append(m.Tickers, tag)
		seenTicker[tag] = true
	}

	for _, c := range db.countries {
		for _, alias := range c.aliases {
			if containsWord(lower, alias) {
				m.Countries = append(m.Countries, c.name)
				break
			}
		}
	}
	return m
}

// normalize lowercases text and folds typographic apostrophes to ASCII.
func normalize(text string) string {
	return strings.NewReplacer("\u2019", "'", "\u2018", "'").Replace(strings.ToLower(text))
}

// containsWord reports whether alias occurs in text with no letter or digit
// directly before or after it.
func containsWord(text, alias string) bool {
	if alias == "" {
		return false
	}
	for from := 0; from <= len(text)-len(alias); {
		i := strings.Index(text[from:], alias)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(alias)
		if !wordRuneBefore(text, start) && !wordRuneAfter(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordRuneBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func cashtags(text string) []string {
	var tags []string
	for _, word := range strings.Fields(text) {
		if !strings.HasPrefix(word, "$") {
			continue
		}
		tag := strings.TrimFunc(word[1:], func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		if tag != "" {
			tags = append(tags, strings.ToUpper(tag))
		}
	}
	return tags
}
