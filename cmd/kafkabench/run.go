package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/razorpay/kafkabench/internal/binding"
	"github.com/razorpay/kafkabench/internal/boot"
	"github.com/razorpay/kafkabench/internal/config"
	"github.com/razorpay/kafkabench/internal/server"
	"github.com/razorpay/kafkabench/internal/workload"
	"github.com/razorpay/kafkabench/pkg/health"
	"github.com/razorpay/kafkabench/pkg/kafkaprops"
	"github.com/razorpay/kafkabench/pkg/logger"
	"github.com/razorpay/kafkabench/pkg/messagebroker"
)

type phase string

const (
	phaseLoad phase = "load"
	phaseRun  phase = "run"
)

func run(c *cli.Context, ph phase) error {
	ctx, stop := signal.NotifyContext(boot.NewContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := boot.GetEnv()
	var err error
	if dir := c.String(flagConfigDir); dir != "" {
		err = boot.InitKafkabenchFrom(ctx, env, dir)
	} else {
		err = boot.InitKafkabench(ctx, env)
	}
	if err != nil {
		return errors.Wrap(err, "failed to init kafkabench")
	}
	defer func() {
		if err := boot.Shutdown(); err != nil {
			logger.Ctx(ctx).Warnw("failed to flush traces", "error", err.Error())
		}
	}()
	defer logger.Log.Sync() //nolint:errcheck

	ctx = boot.NewContext(ctx)
	cfg := boot.Config

	runtime, err := runtimeProperties(c)
	if err != nil {
		return err
	}

	wcfg, err := workloadConfig(c, ph, cfg.Workload, runtime)
	if err != nil {
		return err
	}

	client := binding.NewKafkaClient(runtime, clientOptions(ctx, cfg.Producer)...)
	if err := client.Init(ctx); err != nil {
		return err
	}

	runner, err := workload.NewRunner(ctx, client, wcfg)
	if err != nil {
		cleanup(ctx, client)
		return err
	}

	healthCore := health.NewCore(health.CheckerFunc{CheckName: "kafka-binding", Fn: func(context.Context) error {
		if state := client.State(); state != binding.Ready {
			return errors.Errorf("binding is %v", state)
		}
		return nil
	}})

	metricsAddr := cfg.Metrics.Address
	if c.IsSet(flagMetricsAddr) {
		metricsAddr = c.String(flagMetricsAddr)
	}

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	if metricsAddr != "" {
		httpServer := server.NewHTTPServer(metricsAddr, healthCore, cfg.App.GitCommitHash)
		g.Go(func() error {
			logger.Ctx(ctx).Infow("metrics server listening", "address", metricsAddr)
			return server.Serve(serverCtx, httpServer, shutdownTimeout(cfg.App))
		})
	}

	var report *workload.Report
	g.Go(func() error {
		defer stopServer()
		var runErr error
		report, runErr = runner.Run(gctx)
		return runErr
	})

	runErr := g.Wait()

	healthCore.MarkUnhealthy()
	// flush regardless of how the workload ended
	cleanup(boot.NewContext(context.Background()), client)

	if report != nil {
		printReport(c, ph, report, client.DeliveryFailures())
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// cleanup shuts the binding down, logging instead of returning a failure
func cleanup(ctx context.Context, db binding.DB) {
	if err := db.Cleanup(ctx); err != nil {
		logger.Ctx(ctx).Errorw("failed to clean up kafka binding", "error", err.Error())
	}
}

func runtimeProperties(c *cli.Context) (*properties.Properties, error) {
	overrides, err := kafkaprops.ParseOverrides(c.StringSlice(flagProperties))
	if err != nil {
		return nil, err
	}
	if path := c.String(flagKafkaProperties); path != "" {
		overrides[kafkaprops.PropertiesPathKey] = path
	}
	return kafkaprops.LoadRuntime(c.StringSlice(flagPropertyFiles), overrides)
}

func workloadConfig(c *cli.Context, ph phase, defaults config.Workload, runtime *properties.Properties) (workload.Config, error) {
	base := workload.DefaultConfig()
	if defaults.Table != "" {
		base.Table = defaults.Table
	}
	if defaults.KeyPrefix != "" {
		base.KeyPrefix = defaults.KeyPrefix
	}
	if defaults.RecordCount > 0 {
		base.RecordCount = defaults.RecordCount
	}
	if defaults.FieldCount > 0 {
		base.FieldCount = defaults.FieldCount
	}
	if defaults.FieldLength > 0 {
		base.FieldLength = defaults.FieldLength
	}
	if defaults.ThreadCount > 0 {
		base.ThreadCount = defaults.ThreadCount
	}

	wcfg := workload.ConfigFromProperties(runtime, base)
	if c.IsSet(flagThreads) {
		wcfg.ThreadCount = c.Int(flagThreads)
	}
	if c.IsSet(flagRecords) {
		wcfg.RecordCount = c.Int(flagRecords)
	}

	wcfg.Operation = workload.OperationInsert
	if ph == phaseRun {
		wcfg.Operation = c.String(flagOperation)
	}
	return wcfg, wcfg.Validate()
}

func clientOptions(ctx context.Context, p config.Producer) []binding.Option {
	opts := []binding.Option{
		binding.WithFlushTimeout(p.FlushTimeout),
		binding.WithDebug(p.DebugEnabled),
		binding.WithDeliveryErrorHandler(func(derr messagebroker.DeliveryError) {
			logger.Ctx(ctx).Debugw("delivery failure observed", "messageID", derr.MessageID, "topic", derr.Topic)
		}),
	}
	if p.PropertiesPath != "" {
		opts = append(opts, binding.WithPropertiesPath(p.PropertiesPath))
	}
	if p.EnableTLS {
		opts = append(opts, binding.WithTLS(p.CertDir))
	}
	return opts
}

func shutdownTimeout(app config.App) time.Duration {
	if app.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(app.ShutdownTimeout) * time.Second
}

func printReport(c *cli.Context, ph phase, r *workload.Report, deliveryFailures int64) {
	w := c.App.Writer
	fmt.Fprintf(w, "[OVERALL], Phase, %s\n", ph)
	fmt.Fprintf(w, "[OVERALL], RunTime(ms), %d\n", r.Elapsed.Milliseconds())
	fmt.Fprintf(w, "[OVERALL], Throughput(ops/sec), %.2f\n", r.Throughput())
	fmt.Fprintf(w, "[%s], Operations, %d\n", strings.ToUpper(r.Operation), r.Attempted)
	fmt.Fprintf(w, "[%s], Return=OK, %d\n", strings.ToUpper(r.Operation), r.OK)
	fmt.Fprintf(w, "[%s], Return=ERROR, %d\n", strings.ToUpper(r.Operation), r.Errors)
	if r.NotImplemented > 0 {
		fmt.Fprintf(w, "[%s], Return=NOT_IMPLEMENTED, %d\n", strings.ToUpper(r.Operation), r.NotImplemented)
	}
	fmt.Fprintf(w, "[KAFKA], DeliveryFailures, %d\n", deliveryFailures)
}
