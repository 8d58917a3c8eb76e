package binding

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	env                     string
	bindingPublishCount     *prometheus.CounterVec
	bindingDeliveryFailures *prometheus.CounterVec
)

func init() {
	env = os.Getenv("APP_ENV")

	bindingPublishCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_binding_publish_total",
		Help: "Publish calls by result (submitted or rejected)",
	}, []string{"env", "result"})

	bindingDeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_binding_delivery_failures_total",
		Help: "Asynchronous delivery failures observed by the binding",
	}, []string{"env", "topic"})
}
