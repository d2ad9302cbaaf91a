package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/cmd"
	"github.com/urfave/cli"
)

func init() {
	// glfw must run on the main thread
	runtime.LockOSThread()
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := benchmark.DefaultConfig()
	benchFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "load settings from a yaml file or http(s) URL",
			EnvVar: "POLARIS_BENCH_CONFIG",
		},
		cli.IntFlag{
			Name:  "width",
			Value: int(defaults.Width),
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: int(defaults.Height),
			Usage: "frame height",
		},
		cli.DurationFlag{
			Name:  "interval, i",
			Value: defaults.SampleInterval,
			Usage: "how often metric snapshots are published",
		},
		cli.DurationFlag{
			Name:  "frame-interval",
			Usage: "minimum time between frames (0 renders as fast as possible)",
		},
		cli.Float64Flag{
			Name:  "mirror",
			Value: float64(defaults.MirrorRatio),
			Usage: "ground mirror size relative to the frame (0 disables the mirror)",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "go-routines sharing the background pass (0 uses one per CPU)",
		},
		cli.StringFlag{
			Name:  "sky",
			Usage: "skybox texture file or URL",
		},
		cli.StringFlag{
			Name:  "ground",
			Usage: "ground texture file or URL",
		},
		cli.StringFlag{
			Name:  "environment",
			Usage: "environment reflection texture file or URL",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "seed for mesh placement and material colors",
		},
		cli.StringFlag{
			Name:   "mqtt-broker",
			Usage:  "publish snapshots to this MQTT broker (e.g. tcp://localhost:1883)",
			EnvVar: "POLARIS_BENCH_MQTT_BROKER",
		},
		cli.StringFlag{
			Name:  "mqtt-topic",
			Value: "polaris-bench/snapshots",
			Usage: "MQTT topic prefix; snapshots go to <prefix>/<run id>",
		},
	}

	app := cli.NewApp()
	app.Name = "polaris-bench"
	app.Usage = "benchmark a mesh heavy scene and report rendering metrics"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "notice",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "POLARIS_BENCH_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "bench",
			Usage: "run the benchmark",
			Description: `
Build a scene with 2500 spheres arranged in parenting chains of five, 50 PBR
materials and a mirrored ground, render it continuously and sample the frame,
render, camera, mesh evaluation and render target timings.

Metrics are redrawn on every snapshot when stdout is a terminal. The hardware
report and the final metrics are printed once the benchmark stops.`,
			Flags: append(benchFlags,
				cli.DurationFlag{
					Name:  "duration, d",
					Usage: "stop after this long (0 runs until interrupted)",
				},
				cli.BoolFlag{
					Name:  "headless",
					Usage: "render offscreen instead of opening a window",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "write the last frame of a headless run to this png file",
				},
			),
			Action: cmd.RunBenchmark,
		},
		{
			Name:  "serve",
			Usage: "serve the benchmark dashboard",
			Description: `
Serve a web dashboard with the hardware report and live metric cards.
Clients start and stop the benchmark over a websocket; frames are rendered
offscreen.`,
			Flags: append(benchFlags,
				cli.StringFlag{
					Name:  "listen, l",
					Value: "localhost:8080",
					Usage: "address to listen on",
				},
				cli.BoolFlag{
					Name:  "autostart",
					Usage: "start benchmarking as soon as the server is up",
				},
			),
			Action: cmd.ServeDashboard,
		},
		{
			Name:  "hardware",
			Usage: "print the hardware report",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "user-agent, ua",
					Usage: "build the report from a user agent string instead of this host",
				},
				cli.BoolFlag{
					Name:  "json",
					Usage: "print the report as json",
				},
			},
			Action: cmd.ShowHardware,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
