package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/marketpulse/internal/events"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
	"github.com/matheuskafuri/marketpulse/internal/scheduler"
	"github.com/matheuskafuri/marketpulse/internal/server"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a JSON API",
	Long: `Run an HTTP server exposing the dashboard, refreshed on the configured cron schedule.

Prometheus metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics.Init()
		rec := metrics.Prometheus{}
		d := e.newDashboard(e.liveSource(rec), rec)

		unsubscribe := d.Events().Subscribe(func(ev events.Event) {
			if ev.Kind == events.RefreshIgnored {
				e.log.Infow("refresh skipped, one already running")
			}
		})
		defer unsubscribe()

		// A failed first load is not fatal; the next cron run retries.
		loadCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeoutDuration()*3)
		if err := d.Load(loadCtx); err != nil {
			e.log.Warnw("initial load failed", "error", err)
		}
		cancel()

		sched := scheduler.New(e.log)
		if err := sched.RegisterRefresh(ctx, e.cfg.RefreshCron(), e.cfg.FetchTimeoutDuration()*3, d.Refresh); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		e.log.Infow("next refresh", "at", sched.Next())

		addr := e.cfg.ServerAddr()
		if flagServeAddr != "" {
			addr = flagServeAddr
		}
		srv := server.New(d, e.log)
		srv.SetRefreshTimeout(e.cfg.FetchTimeoutDuration() * 3)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default from config, :8080)")
}
