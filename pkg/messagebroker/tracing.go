package messagebroker

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// kafkaHeadersCarrier lets opentracing read and write span context as kafka headers
type kafkaHeadersCarrier []kafka.Header

// ForeachKey conforms to the TextMapReader interface.
func (c *kafkaHeadersCarrier) ForeachKey(handler func(key, val string) error) error {
	for _, h := range *c {
		if err := handler(h.Key, string(h.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Set implements Set() of opentracing.TextMapWriter.
func (c *kafkaHeadersCarrier) Set(key, val string) {
	h := kafka.Header{Key: key, Value: []byte(val)}
	*c = append(*c, h)
}
