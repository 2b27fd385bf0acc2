package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/cache"
	"github.com/matheuskafuri/marketpulse/internal/config"
)

var (
	flagPruneOlderThan string
	flagHistoryLimit   int
	flagHistoryJSON    bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old articles from the local cache",
	Long: `Delete cached articles and fear/greed readings older than the retention period and reclaim disk space.

Uses the retention value from config (default: 30d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		retention := e.cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := e.db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %s article(s) older than %s.\n", humanize.Comma(deleted), formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Articles: %s\n", humanize.Comma(int64(count)))
		fmt.Printf("Refreshes: %s\n", humanize.Comma(int64(db.RefreshCount())))
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(size)))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded fear/greed readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		readings, err := db.Readings(flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if flagHistoryJSON {
			if readings == nil {
				readings = []cache.Reading{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(readings)
		}
		if len(readings) == 0 {
			fmt.Println("No readings yet. Run marketpulse or marketpulse snapshot first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tINDEX\tLABEL\tARTICLES\tGREED\tFEAR")
		for _, r := range readings {
			fmt.Fprintf(w, "%s\t%+d\t%s\t%d\t%d\t%d\n",
				humanize.Time(r.RecordedAt), r.Index, r.Label, r.Articles, r.GreedCount, r.FearCount)
		}
		return w.Flush()
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 30, "number of readings to show")
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "print readings as JSON")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
