package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matheuskafuri/marketpulse/internal/ai"
	"github.com/matheuskafuri/marketpulse/internal/briefing"
	"github.com/matheuskafuri/marketpulse/internal/dashboard"
)

var asciiLogo = []string{
	`┌┬┐┌─┐┬─┐┬┌─┌─┐┌┬┐┌─┐┬ ┬┬  ┌─┐┌─┐`,
	`│││├─┤├┬┘├┴┐├┤  │ ├─┘│ ││  └─┐├┤ `,
	`┴ ┴┴ ┴┴└─┴ ┴└─┘ ┴ ┴  └─┘┴─┘└─┘└─┘`,
}

func renderLoadingScreen(width, height int, spin string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "", "", spin+" "+bodyStyle.Render("Loading market news..."))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func renderErrorScreen(msg string, width, height int) string {
	title := negativeStyle.Bold(true).Render("Could not load the dashboard")
	body := bodyStyle.Width(min(width-10, 70)).Render(msg)
	hint := metaStyle.Render("press r to reload, q to quit")

	card := helpCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderHeader(h dashboard.Header, brief *ai.Brief, width int) string {
	left := headerStyle.Render("marketpulse") + metaStyle.Render("  "+h.Greeting)
	right := headerDateStyle.Render(h.DateLabel)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	lines := []string{left + fmt.Sprintf("%*s", gap, "") + right}

	meta := fmt.Sprintf(" %s articles", humanize.Comma(int64(h.Articles)))
	if h.ActiveSources != "" {
		meta += " · most active: " + h.ActiveSources
	}
	if len(h.Emerging) > 0 {
		meta += " · emerging: " + strings.Join(h.Emerging, ", ")
	}
	lines = append(lines, metaStyle.Render(truncateStr(meta, width)))

	if brief != nil && brief.Summary != "" {
		lines = append(lines, " "+bodyStyle.Render(truncateStr(brief.Summary, width-2)))
		if len(brief.Themes) > 0 {
			lines = append(lines, " "+metaStyle.Render(truncateStr("themes: "+strings.Join(brief.Themes, " · "), width-2)))
		}
	}
	return strings.Join(lines, "\n")
}

func renderTabs(active tab, counts [tabCount]int, width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var row string
	for t := tab(0); t < tabCount; t++ {
		style := tabInactiveStyle
		if t == active {
			style = tabActiveStyle
		}
		part := style.Render(fmt.Sprintf("%d %s (%d)", t+1, t, counts[t]))
		if t > 0 {
			row += sep
		}
		row += part
	}
	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

func renderDetail(d dashboard.Detail, cursor, width, height int) string {
	w := width - 8
	if w < 30 {
		w = 30
	}

	var body []string
	body = append(body, itemTitleStyle.Render(fmt.Sprintf("%s (%s)", d.Company.Name, d.Company.Ticker)))
	body = append(body, metaStyle.Render(fmt.Sprintf("%d mentions · ", len(d.Articles)))+
		positiveStyle.Render(fmt.Sprintf("%d positive", d.PositiveCount))+metaStyle.Render(" · ")+
		negativeStyle.Render(fmt.Sprintf("%d negative", d.NegativeCount))+metaStyle.Render(" · ")+
		neutralStyle.Render(fmt.Sprintf("%d neutral", d.NeutralCount)))
	body = append(body, metaStyle.Render("total ")+scoreStyle(d.TotalSentiment).Render(fmt.Sprintf("%+d", d.TotalSentiment))+
		metaStyle.Render("  avg ")+scoreStyle(d.AvgSentiment).Render(fmt.Sprintf("%+d", d.AvgSentiment)))
	body = append(body, "")

	// three lines per article plus an excerpt, leaving room for the header and hints
	start, end := window(len(d.Articles), cursor, (height-14)/3)
	for i := start; i < end; i++ {
		da := d.Articles[i]
		title := truncateStr(da.Article.Title, w-4)
		if i == cursor {
			title = itemSelectedStyle.Render("> " + title)
		} else {
			title = itemTitleStyle.Render("  " + title)
		}
		meta := "  " + itemSourceStyle.Render(da.Article.Source) + " " +
			itemTimeStyle.Render("· "+relativeTime(da.Article.Published)) + " " +
			scoreStyle(da.Sentiment.Score).Render(fmt.Sprintf("· %s %+d", da.Sentiment.Sentiment, da.Sentiment.Score)) +
			metaStyle.Render(fmt.Sprintf(" · relevance %.1f", da.Relevance))
		body = append(body, title, meta)
		if i == cursor && da.Article.Description != "" {
			body = append(body, "  "+bodyStyle.Render(truncateStr(briefing.DescriptionExcerpt(da.Article.Description), w-4)))
		}
		body = append(body, "")
	}

	body = append(body, metaStyle.Render("a analysis  p prediction  o open article  esc close"))

	card := modalStyle.Width(w).Render(strings.Join(body, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func renderHelp(width, height int) string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("marketpulse")
	dim := helpDimStyle

	help := title + dim.Render(" keyboard shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move within the list\n" +
		"  tab, ←/→     Switch between topics, opportunities and risks\n" +
		"  1-3           Jump to a tab\n\n" +
		dim.Render("Actions") + "\n" +
		"  enter         Open entity detail\n" +
		"  a / p         Open analysis / prediction page (in detail)\n" +
		"  o             Open the selected article (in detail)\n" +
		"  r             Refresh news\n\n" +
		dim.Render("General") + "\n" +
		"  esc           Close detail or help\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
