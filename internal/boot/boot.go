package boot

import (
	"context"
	"io"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/razorpay/kafkabench/internal/config"
	config_reader "github.com/razorpay/kafkabench/pkg/config"
	logpkg "github.com/razorpay/kafkabench/pkg/logger"
	sentrypkg "github.com/razorpay/kafkabench/pkg/monitoring/sentry"
	"github.com/razorpay/kafkabench/pkg/tracing"
)

var (
	// Config contains application configuration values.
	Config config.Config

	// Tracer is used for creating spans for distributed tracing
	Tracer opentracing.Tracer
	// Closer holds an instance to the RequestTracing object's Closer.
	Closer io.Closer
)

// GetEnv returns the current environment, prod, dev etc
func GetEnv() string {
	// Fetch env for bootstrapping
	environment := os.Getenv("APP_ENV")
	if environment == "" {
		environment = "dev"
	}

	return environment
}

// initialize all core dependencies for the application
func initialize(ctx context.Context, env string, reader *config_reader.Config) error {
	var appConfig config.Config
	if err := reader.Load(env, &appConfig); err != nil {
		return errors.Wrapf(err, "failed to load %s configuration", env)
	}
	Config = appConfig

	// Initializes Sentry monitoring client.
	sentry, err := sentrypkg.InitSentry(Config.Sentry, env)
	if err != nil {
		return err
	}
	// Initializes logging driver.
	servicekv := map[string]interface{}{
		"appEnv":        Config.App.Env,
		"serviceName":   Config.App.ServiceName,
		"gitCommitHash": Config.App.GitCommitHash,
	}
	logger, err := logpkg.NewLogger(env, servicekv, sentry)
	if err != nil {
		return err
	}
	Tracer, Closer, err = tracing.Init(Config.Tracing, logger)
	if err != nil {
		return err
	}

	logger.Debugw("kafkabench initialized", "env", env)
	return nil
}

// InitKafkabench loads config/<env>.toml over config/default.toml and sets up
// sentry, logging and tracing.
func InitKafkabench(ctx context.Context, env string) error {
	return initialize(ctx, env, config_reader.NewDefaultConfig())
}

// InitKafkabenchFrom is InitKafkabench reading configuration from dir
func InitKafkabenchFrom(ctx context.Context, env string, dir string) error {
	return initialize(ctx, env, config_reader.NewConfig(config_reader.NewDefaultOptions().WithConfigPath(dir)))
}

// Shutdown flushes buffered spans
func Shutdown() error {
	if Closer == nil {
		return nil
	}
	return Closer.Close()
}

// NewContext adds core key-value e.g. service name, git hash etc to
// existing context or to a new background context and returns.
func NewContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logpkg.Log != nil {
		ctx = context.WithValue(ctx, logpkg.LoggerCtxKey, logpkg.Log)
	}
	return ctx
}
