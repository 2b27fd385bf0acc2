package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/ranking"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// window returns the [start, end) range of items to draw so that cursor
// stays visible.
func window(total, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func trendArrow(t topics.Trend) string {
	switch t {
	case topics.Up:
		return positiveStyle.Render("▲")
	case topics.Down:
		return negativeStyle.Render("▼")
	default:
		return neutralStyle.Render("●")
	}
}

func renderTopicCard(c dashboard.TopicCard, selected bool, width int) string {
	name := fmt.Sprintf("%s %s", c.Icon, c.Name)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(name, width-24))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(name, width-24))
	}
	stats := fmt.Sprintf(" %d  %s %s  %s", c.Count, trendArrow(c.Trend), metaStyle.Render(c.ChangeLabel), sparkline(c.Sparkline))

	lines := []string{title + stats}
	for _, h := range c.Headlines {
		lines = append(lines, "    "+bodyStyle.Render(truncateStr(h, width-6)))
	}
	return strings.Join(lines, "\n")
}

func renderTopicList(cards []dashboard.TopicCard, cursor, height, width int) string {
	if len(cards) == 0 {
		return lipglossCenter("No topics detected", width, height)
	}
	// title line + up to 3 headlines + blank line
	start, end := window(len(cards), cursor, height/5)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderTopicCard(cards[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func levelBadge(l ranking.Level) string {
	if l == ranking.High {
		return highBadgeStyle.Render("HIGH")
	}
	return mediumBadgeStyle.Render("MED")
}

func renderEntityRow(r dashboard.EntityRow, selected bool, width int) string {
	label := fmt.Sprintf("%-6s %s", r.Ticker, r.Name)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(label, width-34))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(label, width-34))
	}
	score := scoreStyle(r.Total).Render(fmt.Sprintf("%+d", r.Total))
	meta := metaStyle.Render(fmt.Sprintf(" %d mentions  avg %+d  ", r.Mentions, r.Avg))
	return title + "  " + score + meta + levelBadge(r.Level)
}

func renderEntityList(rows []dashboard.EntityRow, cursor, height, width int, empty string) string {
	if len(rows) == 0 {
		return lipglossCenter(empty, width, height)
	}
	start, end := window(len(rows), cursor, height/2)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderEntityRow(rows[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
