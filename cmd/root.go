package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagRefresh bool
	flagConfig  string
	flagCheck   bool
)

var rootCmd = &cobra.Command{
	Use:   "marketpulse",
	Short: "Terminal market sentiment dashboard",
	Long: "marketpulse aggregates financial news and turns it into a live dashboard: trending topics, " +
		"a fear/greed gauge, and the companies the headlines are most bullish or bearish on.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force a network fetch before launching")
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketpulse %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if res := update.Check(ctx, version); res != nil {
			fmt.Printf("Update available: v%s (%s)\n", res.LatestVersion, res.URL)
		} else {
			fmt.Println("You are on the latest version.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
