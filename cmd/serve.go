package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/dashboard"
	"github.com/achilleasa/polaris-bench/hardware"
	"github.com/achilleasa/polaris-bench/surface"
	"github.com/urfave/cli"
)

// Time allowed for in-flight requests when shutting down.
const shutdownTimeout = 5 * time.Second

// Serve the dashboard. Benchmarks render into an offscreen surface and are
// started and stopped by dashboard clients.
func ServeDashboard(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, relTo, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opts, err := controllerOptions(ctx, cfg, relTo)
	if err != nil {
		return err
	}

	surf := surface.NewOffscreen(cfg.Width, cfg.Height)
	defer surf.Close()

	ctrl := benchmark.NewController(func() surface.Surface { return surf }, opts...)
	defer ctrl.Close()

	closeExport, err := setupExport(ctx, ctrl)
	if err != nil {
		return err
	}
	defer closeExport()

	dash := dashboard.NewServer(ctrl, hardware.Host())
	defer dash.Close()

	if ctx.Bool("autostart") {
		if err = ctrl.Start(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ctx.String("listen"),
		Handler:           dash,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()
	logger.Noticef("serving dashboard on http://%s", srv.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err = <-errChan:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case sig := <-sigChan:
		logger.Noticef("caught %s; shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
