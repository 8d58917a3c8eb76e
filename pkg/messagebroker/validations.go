package messagebroker

import (
	"net"
	"strconv"

	"github.com/razorpay/kafkabench/internal/merror"
)

// validateKafkaProducerClientConfig validates kafka producer client config
func validateKafkaProducerClientConfig(options *ProducerClientOptions) error {
	if options == nil || options.Topic == "" {
		return merror.New(merror.ConfigurationError, "kafka: empty topic name")
	}

	if options.FlushTimeout < 0 {
		return merror.New(merror.ConfigurationError, "kafka: negative flush timeout")
	}

	return nil
}

// validateKafkaProducerBrokerConfig validates kafka producer broker config
func validateKafkaProducerBrokerConfig(config *BrokerConfig) error {
	if config == nil || len(config.Brokers) == 0 {
		return merror.New(merror.ConnectionError, "kafka: empty brokers list")
	}

	for _, broker := range config.Brokers {
		if err := validateBrokerAddress(broker); err != nil {
			return err
		}
	}

	if config.EnableTLS && config.CertDir == "" {
		return merror.New(merror.ConnectionError, "kafka: tls enabled without a certificate directory")
	}

	return nil
}

func validateBrokerAddress(broker string) error {
	host, port, err := net.SplitHostPort(broker)
	if err != nil {
		return merror.Wrapf(merror.ConnectionError, err, "kafka: malformed broker address %q", broker)
	}

	if host == "" {
		return merror.Newf(merror.ConnectionError, "kafka: missing host in broker address %q", broker)
	}

	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return merror.Newf(merror.ConnectionError, "kafka: invalid port in broker address %q", broker)
	}

	return nil
}
