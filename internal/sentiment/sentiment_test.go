package sentiment

import "testing"

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		text string
		want Sentiment
	}{
		{"Apple reports record quarterly earnings beating estimates", Positive},
		{"Markets fear recession after GDP decline", Negative},
		{"Tesla shares surge after strong delivery numbers", Positive},
		{"Tesla stock plunges on weak guidance", Negative},
		{"Company schedules annual shareholder meeting", Neutral},
		{"", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := a.Analyze(tt.text)
			if got.Sentiment != tt.want {
				t.Errorf("Analyze(%q) = %+v, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzeScoreIsMultipleOfWeight(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze("Markets fear recession after GDP decline")
	if got.Score != -3*Weight {
		t.Errorf("Score = %d, want %d", got.Score, -3*Weight)
	}
}

func TestAnalyzeMatchesWholeTokens(t *testing.T) {
	a := NewAnalyzer()
	// "again" must not count as "gain", "lowering" must not count as "low".
	got := a.Analyze("Fed meets again, lowering nothing")
	if got.Score != 0 {
		t.Errorf("Score = %d, want 0", got.Score)
	}
}

func TestAnalyzeTrimsPunctuation(t *testing.T) {
	a := NewAnalyzer()
	got := a.Analyze("Stocks rally!")
	if got.Score != Weight {
		t.Errorf("Score = %d, want %d", got.Score, Weight)
	}
}

func TestAnalyzePhrases(t *testing.T) {
	a := NewAnalyzerWith([]string{"tops estimates"}, []string{"profit warning"})
	if got := a.Analyze("Nvidia tops estimates again"); got.Score != Weight {
		t.Errorf("positive phrase score = %d, want %d", got.Score, Weight)
	}
	if got := a.Analyze("Retailer issues profit warning"); got.Score != -Weight {
		t.Errorf("negative phrase score = %d, want %d", got.Score, -Weight)
	}
}

func TestAnalyzePhraseCountsOnce(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		text string
		want int
	}{
		{"Nasdaq hits all-time high", Weight},
		{"Nasdaq hits high", Weight},
		{"Acme announces job cuts", -Weight},
		{"Acme announces cuts", -Weight},
		{"Record high as Nvidia tops estimates", 3 * Weight},
	}
	for _, tt := range tests {
		if got := a.Analyze(tt.text); got.Score != tt.want {
			t.Errorf("Analyze(%q) = %d, want %d", tt.text, got.Score, tt.want)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "Oil prices tumble as demand worries mount, stocks rebound"
	first := a.Analyze(text)
	for i := 0; i < 10; i++ {
		if got := a.Analyze(text); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Sentiment
	}{
		{30, Positive},
		{1, Positive},
		{0, Neutral},
		{-1, Negative},
		{-20, Negative},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
