package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/display"
	"github.com/achilleasa/polaris-bench/hardware"
	"github.com/achilleasa/polaris-bench/surface"
	"github.com/achilleasa/polaris-bench/surface/window"
	"github.com/urfave/cli"
)

// How often window events are processed while a benchmark runs.
const eventPollInterval = 10 * time.Millisecond

// Run the benchmark until interrupted (or for the configured duration) and
// print the hardware report together with the collected metrics.
func RunBenchmark(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, relTo, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opts, err := controllerOptions(ctx, cfg, relTo)
	if err != nil {
		return err
	}

	report := hardware.Host()

	var (
		surf      surface.Surface
		win       *window.Window
		offscreen *surface.Offscreen
	)
	if ctx.Bool("headless") {
		offscreen = surface.NewOffscreen(cfg.Width, cfg.Height)
		defer offscreen.Close()
		surf = offscreen
	} else {
		win, err = window.NewWindow(cfg.Width, cfg.Height, "polaris-bench")
		if err != nil {
			return err
		}
		defer win.Close()
		surf = win

		gpu := win.GPUInfo()
		logger.Infof("GPU: %s %s (OpenGL %s)", gpu.Vendor, gpu.Renderer, gpu.Version)
		report = report.WithGPU(gpu.Renderer, "")
	}

	ctrl := benchmark.NewController(func() surface.Surface { return surf }, opts...)
	defer ctrl.Close()

	closeExport, err := setupExport(ctx, ctrl)
	if err != nil {
		return err
	}
	defer closeExport()

	removeLive := ctrl.Subscribe(newLiveView(os.Stdout).Update)
	defer removeLive()

	if err = ctrl.Start(); err != nil {
		return err
	}
	waitForStop(cfg.Duration, win)
	ctrl.Stop()

	if err = display.Write(os.Stdout, report.Cards()...); err != nil {
		return err
	}

	var last *benchmark.Snapshot
	if snap, ok := ctrl.Latest(); ok {
		last = &snap
	}
	if err = display.Write(os.Stdout, benchmark.MetricCards(last)...); err != nil {
		return err
	}

	if out := ctx.String("out"); out != "" {
		if offscreen == nil {
			logger.Warning("--out is only supported for headless runs")
			return nil
		}
		if err = offscreen.SavePNG(out); err != nil {
			return err
		}
		logger.Noticef("wrote last frame to %s", out)
	}

	return nil
}

// Block until the process is interrupted, the duration elapses or the window
// is closed. When a window is given its events are processed on the calling
// goroutine which must be the main one.
func waitForStop(duration time.Duration, win *window.Window) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var timeout <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeout = timer.C
	}

	var poll <-chan time.Time
	if win != nil {
		ticker := time.NewTicker(eventPollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	for {
		select {
		case sig := <-sigChan:
			logger.Noticef("caught %s; stopping", sig)
			return
		case <-timeout:
			logger.Info("benchmark duration elapsed")
			return
		case <-poll:
			win.PollEvents()
			if win.ShouldClose() {
				return
			}
		}
	}
}
