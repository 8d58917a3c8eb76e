package workload

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	env                      string
	workloadOperationCount   *prometheus.CounterVec
	workloadOperationLatency *prometheus.HistogramVec
)

func init() {
	env = os.Getenv("APP_ENV")

	workloadOperationCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_workload_operation_total",
		Help: "Workload operations by status",
	}, []string{"env", "operation", "status"})

	workloadOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafkabench_workload_operation_latency_sec",
		Help:    "Latency of a single binding operation as seen by the driver",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 22),
	}, []string{"env", "operation"})
}
