package cmd

import (
	"encoding/json"
	"os"

	"github.com/achilleasa/polaris-bench/display"
	"github.com/achilleasa/polaris-bench/hardware"
	"github.com/urfave/cli"
)

// Print the hardware report for this host or for a user agent string.
func ShowHardware(ctx *cli.Context) error {
	setupLogging(ctx)

	report := hardware.Host()
	if ua := ctx.String("user-agent"); ua != "" {
		report = hardware.FromUserAgent(ua)
	}

	if ctx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	return display.Write(os.Stdout, report.Cards()...)
}
