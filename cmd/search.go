package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
	"github.com/matheuskafuri/marketpulse/internal/sentiment"
	"github.com/matheuskafuri/marketpulse/internal/signal"
)

var (
	flagSearchSince   string
	flagSearchSources []string
	flagSearchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search cached headlines",
	Long: `Search the local article cache by title or description and show each match with its
sentiment and relevance score. Run marketpulse or marketpulse snapshot first to fill the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		opts := cache.QueryOpts{Sources: flagSearchSources, Limit: flagSearchLimit}
		if len(args) == 1 {
			opts.Search = args[0]
		}
		if flagSearchSince != "" {
			d, err := parseSince(flagSearchSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		articles, err := db.GetArticles(opts)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("No matching articles.")
			return nil
		}
		printMatches(os.Stdout, articles, sentiment.NewAnalyzer(), cfg.SourceWeights())
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchSince, "since", "", "only articles from the last duration (e.g., 7d, 24h)")
	searchCmd.Flags().StringSliceVar(&flagSearchSources, "source", nil, "limit to these sources (repeatable)")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 25, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func printMatches(out io.Writer, articles []cache.Article, scorer sentiment.Scorer, weights map[string]float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSOURCE\tSENTIMENT\tRELEVANCE\tTITLE")
	for _, a := range articles {
		res := scorer.Analyze(a.Title)
		rel := signal.Score(signal.Input{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source,
			Published:   a.Published,
		}, weights)
		title := a.Title
		if r := []rune(title); len(r) > 80 {
			title = string(r[:77]) + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s %+d\t%.1f\t%s\n",
			humanize.Time(a.Published), a.Source, res.Sentiment, res.Score, rel, strings.TrimSpace(title))
	}
	w.Flush()
}
