// Package nav builds outbound links for a ticker and opens them in the
// system browser.
package nav

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// AnalysisURL returns the advanced analysis page for ticker under base.
func AnalysisURL(base, ticker string) string {
	return page(base, "advanced-analysis.html", ticker)
}

// PredictionURL returns the trend prediction page for ticker under base.
func PredictionURL(base, ticker string) string {
	return page(base, "trend-prediction.html", ticker)
}

func page(base, name, ticker string) string {
	base = strings.TrimRight(base, "/")
	q := url.Values{"symbol": {strings.ToUpper(strings.TrimPrefix(ticker, "$"))}}
	if base == "" {
		return name + "?" + q.Encode()
	}
	return base + "/" + name + "?" + q.Encode()
}

// launch starts the platform opener; replaced in tests.
var launch = defaultLaunch

func defaultLaunch(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}

// Open launches rawURL in the system browser. Only http and https are allowed.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if err := launch(rawURL); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}
