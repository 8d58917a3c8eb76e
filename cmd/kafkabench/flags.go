package main

import (
	"github.com/razorpay/kafkabench/internal/workload"
	"github.com/urfave/cli/v2"
)

const (
	flagPropertyFiles   = "P"
	flagProperties      = "p"
	flagThreads         = "threads"
	flagRecords         = "records"
	flagOperation       = "operation"
	flagKafkaProperties = "kafka-properties"
	flagMetricsAddr     = "metrics-addr"
	flagConfigDir       = "config-dir"
)

func workloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  flagPropertyFiles,
			Usage: "Workload property file, may be repeated; later files win",
		},
		&cli.StringSliceFlag{
			Name:  flagProperties,
			Usage: "Runtime property as key=value, may be repeated; applied after -P files",
		},
		&cli.IntFlag{
			Name:    flagThreads,
			Usage:   "Number of concurrent workers (threadcount)",
			EnvVars: []string{"KAFKABENCH_THREADS"},
		},
		&cli.IntFlag{
			Name:    flagRecords,
			Usage:   "Number of operations to issue (recordcount)",
			EnvVars: []string{"KAFKABENCH_RECORDS"},
		},
		&cli.StringFlag{
			Name:    flagKafkaProperties,
			Usage:   "kafka.properties file replacing the bundled one",
			EnvVars: []string{"KAFKABENCH_KAFKA_PROPERTIES"},
		},
		&cli.StringFlag{
			Name:    flagMetricsAddr,
			Usage:   "Address of the metrics and health endpoint, empty to disable",
			EnvVars: []string{"KAFKABENCH_METRICS_ADDR"},
		},
		&cli.StringFlag{
			Name:    flagConfigDir,
			Usage:   "Directory holding default.toml and <env>.toml",
			EnvVars: []string{"KAFKABENCH_CONFIG_DIR"},
		},
	}
}

func operationFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagOperation,
		Usage: "Operation issued by the run phase: insert or update",
		Value: workload.OperationUpdate,
	}
}
