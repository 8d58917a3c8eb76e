//go:build unit
// +build unit

package main

import (
	"context"
	"flag"
	"testing"

	"github.com/razorpay/kafkabench/internal/binding"
	"github.com/razorpay/kafkabench/internal/config"
	"github.com/razorpay/kafkabench/internal/merror"
	"github.com/razorpay/kafkabench/internal/workload"
	"github.com/razorpay/kafkabench/pkg/kafkaprops"
	"github.com/razorpay/kafkabench/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestRuntimeProperties(t *testing.T) {
	c := newContext(t, workloadFlags(),
		"-P", "testdata/workload.properties",
		"-p", "fieldcount=7",
		"-p", "static_col.region=eu",
		"--kafka-properties", "/etc/kafka.properties")

	p, err := runtimeProperties(c)
	require.NoError(t, err)
	assert.Equal(t, 25, p.GetInt("recordcount", 0))
	assert.Equal(t, 7, p.GetInt("fieldcount", 0))
	assert.Equal(t, "/etc/kafka.properties", p.GetString(kafkaprops.PropertiesPathKey, ""))
	assert.Equal(t, map[string]string{"env": "perf", "region": "eu"}, kafkaprops.StaticColumns(p))
}

func TestRuntimeProperties_BadOverride(t *testing.T) {
	c := newContext(t, workloadFlags(), "-p", "novalue")
	_, err := runtimeProperties(c)
	assert.True(t, merror.Is(err, merror.ConfigurationError))
}

func TestWorkloadConfig_Load(t *testing.T) {
	c := newContext(t, workloadFlags(), "-P", "testdata/workload.properties", "--threads", "4")
	p, err := runtimeProperties(c)
	require.NoError(t, err)

	cfg, err := workloadConfig(c, phaseLoad, config.Workload{Table: "events", RecordCount: 5, ThreadCount: 2}, p)
	require.NoError(t, err)
	assert.Equal(t, workload.OperationInsert, cfg.Operation)
	assert.Equal(t, "events", cfg.Table)
	// runtime properties win over file config, flags win over both
	assert.Equal(t, 25, cfg.RecordCount)
	assert.Equal(t, 3, cfg.FieldCount)
	assert.Equal(t, 4, cfg.ThreadCount)
}

func TestWorkloadConfig_Run(t *testing.T) {
	flags := append(workloadFlags(), operationFlag())

	c := newContext(t, flags, "--records", "9")
	cfg, err := workloadConfig(c, phaseRun, config.Workload{}, nil)
	require.NoError(t, err)
	assert.Equal(t, workload.OperationUpdate, cfg.Operation)
	assert.Equal(t, 9, cfg.RecordCount)

	c = newContext(t, flags, "--operation", "delete")
	_, err = workloadConfig(c, phaseRun, config.Workload{}, nil)
	assert.True(t, merror.Is(err, merror.ConfigurationError))
}

type failingCleanupDB struct {
	binding.DB
	calls int
}

func (d *failingCleanupDB) Cleanup(context.Context) error {
	d.calls++
	return merror.New(merror.ConnectionError, "flush failed")
}

func TestCleanup_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	ctx := context.WithValue(context.Background(), logger.LoggerCtxKey, zap.New(core).Sugar())

	db := &failingCleanupDB{}
	cleanup(ctx, db)

	assert.Equal(t, 1, db.calls)
	entries := logs.FilterMessage("failed to clean up kafka binding").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ConnectionError: flush failed", entries[0].ContextMap()["error"])
}
