package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/metrics"
	"github.com/matheuskafuri/marketpulse/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	src := e.liveSource(metrics.Noop{})
	if !flagRefresh && !e.db.NeedsRefresh(e.cfg.RefreshDuration()) {
		src = &warmSource{cached: e.cacheSource(), live: src}
	}

	// Auto-prune old articles on launch
	if _, err := e.db.Prune(e.cfg.RetentionDuration()); err != nil {
		e.log.Warnw("pruning cache", "error", err)
	}

	return tui.Run(tui.RunOpts{
		Dashboard:    e.newDashboard(src, metrics.Noop{}),
		Briefer:      e.briefer(),
		Log:          e.log,
		RefreshEvery: e.cfg.RefreshDuration(),
	})
}
