package messagebroker

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Kafka is the broker label used in metrics
const Kafka = "kafka"

var (
	env                                string
	messageBrokerOperationCount        *prometheus.CounterVec
	messageBrokerOperationTimeTaken    *prometheus.HistogramVec
	messageBrokerSendRejected          *prometheus.CounterVec
	messageBrokerDeliveryCount         *prometheus.CounterVec
	messageBrokerDeliveryErrorsDropped *prometheus.CounterVec
	messageBrokerMessagesLost          *prometheus.CounterVec
	messageBrokerClientErrors          *prometheus.CounterVec
)

func init() {
	env = os.Getenv("APP_ENV")

	messageBrokerOperationCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_operation_total_count",
	}, []string{"env", "broker", "operation"})

	messageBrokerOperationTimeTaken = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafkabench_message_broker_time_taken_for_operation_sec",
		Help:    "Time taken for each message broker operation",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 20),
	}, []string{"env", "broker", "operation"})

	messageBrokerSendRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_send_rejected_total",
		Help: "Messages the producer refused to enqueue",
	}, []string{"env", "topic"})

	messageBrokerDeliveryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_delivery_total",
		Help: "Delivery reports received from the producer, by result",
	}, []string{"env", "topic", "result"})

	messageBrokerDeliveryErrorsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_delivery_errors_dropped_total",
		Help: "Delivery failures not published because the error channel was full",
	}, []string{"env", "topic"})

	messageBrokerMessagesLost = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_messages_lost_on_close_total",
		Help: "Messages still queued when the close flush timed out",
	}, []string{"env", "topic"})

	messageBrokerClientErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafkabench_message_broker_client_errors_total",
		Help: "Client level errors raised by the producer",
	}, []string{"env", "fatal"})
}
