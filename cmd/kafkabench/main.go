package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "kafkabench",
		Usage: "Benchmark a kafka topic with a YCSB style insert/update workload",
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Insert recordcount records through the kafka binding",
				Flags:  workloadFlags(),
				Action: func(c *cli.Context) error { return run(c, phaseLoad) },
			},
			{
				Name:   "run",
				Usage:  "Issue --operation against the kafka binding",
				Flags:  append(workloadFlags(), operationFlag()),
				Action: func(c *cli.Context) error { return run(c, phaseRun) },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kafkabench: %v\n", err)
		os.Exit(1)
	}
}
