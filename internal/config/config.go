package config

import (
	"time"

	"github.com/razorpay/kafkabench/pkg/monitoring/sentry"
	"github.com/razorpay/kafkabench/pkg/tracing"
)

// Config holds the kafkabench application configuration
type Config struct {
	App      App
	Sentry   *sentry.Config
	Tracing  tracing.Config
	Producer Producer
	Workload Workload
	Metrics  Metrics
}

// App contains application-specific config values
type App struct {
	Env             string
	ServiceName     string
	ShutdownTimeout int
	GitCommitHash   string
}

// Producer configures the kafka binding
type Producer struct {
	// FlushTimeout bounds the final flush on shutdown
	FlushTimeout time.Duration
	// PropertiesPath replaces the bundled kafka.properties when set
	PropertiesPath string
	EnableTLS      bool
	CertDir        string
	DebugEnabled   bool
}

// Workload holds driver defaults, overridden by runtime properties and flags
type Workload struct {
	Table       string
	KeyPrefix   string
	RecordCount int
	FieldCount  int
	FieldLength int
	ThreadCount int
}

// Metrics configures the prometheus endpoint
type Metrics struct {
	Address string
}
