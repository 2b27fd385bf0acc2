package tui

import (
	"fmt"
	"strings"

	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/feargreed"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline scales values onto block characters. An all-zero series renders
// as the lowest block.
func sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	hi := 0
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > 0 && v > 0 {
			idx = v * (len(sparkBlocks) - 1) / hi
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

func labelStyleFor(label string) func(...string) string {
	switch label {
	case feargreed.ExtremeFear, feargreed.Fear:
		return negativeStyle.Render
	case feargreed.ExtremeGreed, feargreed.Greed:
		return positiveStyle.Render
	default:
		return neutralStyle.Render
	}
}

// gaugeBar draws a width-cell meter with a marker at position (0..1).
func gaugeBar(position float64, width int) string {
	if width < 3 {
		width = 3
	}
	if position < 0 {
		position = 0
	}
	if position > 1 {
		position = 1
	}
	mark := int(position * float64(width-1))
	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == mark:
			b.WriteString("●")
		case i < width/2:
			b.WriteString(negativeStyle.Render("━"))
		default:
			b.WriteString(positiveStyle.Render("━"))
		}
	}
	return b.String()
}

func renderGauge(g dashboard.Gauge, width int) string {
	barWidth := width - 20
	if barWidth > 60 {
		barWidth = 60
	}
	render := labelStyleFor(g.Label)
	title := render(fmt.Sprintf("%s %+d", g.Label, g.Index))
	bar := metaStyle.Render("Fear ") + gaugeBar(g.Position, barWidth) + metaStyle.Render(" Greed")

	series := make([]int, len(g.Timeline))
	for i, p := range g.Timeline {
		series[i] = p.Index + 100
	}
	dist := fmt.Sprintf("%s %.0f%%  %s %.0f%%  %s %.0f%%",
		positiveStyle.Render("greed"), g.PositivePct,
		negativeStyle.Render("fear"), g.NegativePct,
		neutralStyle.Render("neutral"), g.NeutralPct)
	if trend := sparkline(series); trend != "" {
		dist += "  " + metaStyle.Render("trend ") + trend
	}
	return " " + title + "\n " + bar + "\n " + dist
}
