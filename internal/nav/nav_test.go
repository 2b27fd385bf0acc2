package nav

import "testing"

func TestURLs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"analysis", AnalysisURL("https://pulse.example.com", "TSLA"), "https://pulse.example.com/advanced-analysis.html?symbol=TSLA"},
		{"prediction", PredictionURL("https://pulse.example.com/", "tsla"), "https://pulse.example.com/trend-prediction.html?symbol=TSLA"},
		{"cashtag", AnalysisURL("https://pulse.example.com", "$nvda"), "https://pulse.example.com/advanced-analysis.html?symbol=NVDA"},
		{"escaped", AnalysisURL("https://pulse.example.com", "BRK.B"), "https://pulse.example.com/advanced-analysis.html?symbol=BRK.B"},
		{"relative", PredictionURL("", "AAPL"), "trend-prediction.html?symbol=AAPL"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	var opened []string
	launch = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	t.Cleanup(func() { launch = defaultLaunch })

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}
	for _, tt := range tests {
		err := Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
	}
	if len(opened) != 2 {
		t.Errorf("launched %d URLs, want 2", len(opened))
	}
}
