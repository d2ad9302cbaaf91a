package cmd

import (
	"os"

	"github.com/achilleasa/polaris-bench/log"
	"github.com/urfave/cli"
)

var logger = log.New("polaris-bench")

func setupLogging(ctx *cli.Context) {
	// Keep stdout free for the metric cards
	log.SetSink(os.Stderr)

	level, err := log.ParseLevel(ctx.GlobalString("log-level"))
	if err != nil {
		logger.Warning(err)
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
