package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

var (
	flagSnapshotJSON    bool
	flagSnapshotTopic   string
	flagSnapshotOffline bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load once and print the dashboard",
	Long: `Fetch the configured sources, analyze them and print the dashboard as text or JSON.

With --offline the cached articles are analyzed instead of fetching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		src := e.liveSource(metrics.Noop{})
		if flagSnapshotOffline {
			src = e.cacheSource()
		}
		d := e.newDashboard(src, metrics.Noop{})

		topic, alias := "", flagSnapshotTopic
		if alias == "" {
			alias = e.cfg.DefaultTopic
		}
		if alias != "" {
			topic, err = topics.ResolveAlias(alias, d.Topics())
			if err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeoutDuration()*3)
		defer cancel()
		if err := d.Load(ctx); err != nil {
			return err
		}

		v := d.View()
		if topic != "" {
			v.Topics = filterCards(v.Topics, topic)
		}
		if flagSnapshotJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		writeText(os.Stdout, v)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().BoolVar(&flagSnapshotJSON, "json", false, "print the view model as JSON")
	snapshotCmd.Flags().StringVar(&flagSnapshotTopic, "topic", "", "only show one topic (e.g., cuts, hikes, ai, crypto); defaults to the config topic")
	snapshotCmd.Flags().BoolVar(&flagSnapshotOffline, "offline", false, "analyze cached articles without fetching")
}

func filterCards(cards []dashboard.TopicCard, name string) []dashboard.TopicCard {
	out := []dashboard.TopicCard{}
	for _, c := range cards {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func writeText(w io.Writer, v dashboard.View) {
	h := v.Header
	fmt.Fprintf(w, "%s · %s\n", h.Greeting, h.DateLabel)
	fmt.Fprintf(w, "%d articles", h.Articles)
	if h.ActiveSources != "" {
		fmt.Fprintf(w, " · most active: %s", h.ActiveSources)
	}
	fmt.Fprintln(w)
	if len(h.Emerging) > 0 {
		fmt.Fprintf(w, "Emerging: %s\n", strings.Join(h.Emerging, ", "))
	}

	g := v.Gauge
	fmt.Fprintf(w, "\nFear & Greed: %+d (%s)  greed %d · fear %d · neutral %d\n",
		g.Index, g.Label, g.GreedCount, g.FearCount, g.Neutral)

	fmt.Fprintln(w, "\nTrending topics")
	if len(v.Topics) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, t := range v.Topics {
		fmt.Fprintf(w, "  %s %-24s %4d  %-7s %s\n", t.Icon, t.Name, t.Count, t.Trend, t.ChangeLabel)
		for _, hl := range t.Headlines {
			fmt.Fprintf(w, "      - %s\n", hl)
		}
	}

	writeRows(w, "Opportunities", v.Opportunities)
	writeRows(w, "Risks", v.Risks)
}

func writeRows(w io.Writer, title string, rows []dashboard.EntityRow) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-6s %-28s %+5d  avg %+d  %d mentions  %s\n",
			r.Ticker, r.Name, r.Total, r.Avg, r.Mentions, r.Level)
	}
}
