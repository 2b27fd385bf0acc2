package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func renderStatusBar(articles int, generated time.Time, notice string, width int, refreshing bool) string {
	left := fmt.Sprintf(" %s articles", humanize.Comma(int64(articles)))
	if !generated.IsZero() {
		left += " · updated " + humanize.Time(generated)
	}
	if refreshing {
		left += " (refreshing...)"
	}
	if notice != "" {
		left += " · " + lipgloss.NewStyle().Foreground(colorAccent).Render(notice)
	}

	right := " tab switch  enter detail  r refresh  ? help  q quit "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "

	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}
