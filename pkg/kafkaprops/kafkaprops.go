// Package kafkaprops loads the producer properties used by the kafka binding.
//
// Two property sources exist:
//   - the bundled kafka.properties resource (or an on-disk replacement of it),
//     holding the broker list, topic, serializers and batching hints;
//   - the harness runtime properties, from which static columns are extracted.
//
// Both are Java style .properties files and are parsed with magiconair/properties.
package kafkaprops

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"github.com/razorpay/kafkabench/internal/merror"
)

// Property keys understood in kafka.properties.
const (
	BrokerList      = "broker.list"
	Topic           = "topic"
	KeySerializer   = "key.serializer"
	ValueSerializer = "value.serializer"
	LingerMs        = "linger.ms"
	BatchSize       = "batch.size"

	// BundledResourceName is the name of the resource embedded in the binary
	BundledResourceName = "kafka.properties"
)

// StringSerializer is the serializer identifier the binding accepts for keys and values.
const StringSerializer = "org.apache.kafka.common.serialization.StringSerializer"

//go:embed kafka.properties
var bundled []byte

// Configuration is the parsed content of kafka.properties. It is never mutated after load.
type Configuration struct {
	brokers         []string
	topic           string
	keySerializer   string
	valueSerializer string
	lingerMs        int
	batchSize       int
	props           *properties.Properties
}

// loader reads values verbatim, without ${...} expansion, as Java properties do
var loader = properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

// LoadBundled parses the kafka.properties resource embedded in the binary.
func LoadBundled() (*Configuration, error) {
	p, err := loader.LoadBytes(bundled)
	if err != nil {
		return nil, merror.Wrapf(merror.ConfigurationError, err, "failed to parse bundled %s", BundledResourceName)
	}
	return newConfiguration(p)
}

// LoadFile parses a kafka.properties file from disk.
func LoadFile(path string) (*Configuration, error) {
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, merror.Wrapf(merror.ConfigurationError, err, "failed to load %s", path)
	}
	return newConfiguration(p)
}

// LoadString parses kafka.properties content held in memory.
func LoadString(content string) (*Configuration, error) {
	p, err := loader.LoadBytes([]byte(content))
	if err != nil {
		return nil, merror.Wrap(merror.ConfigurationError, err, "failed to parse kafka properties")
	}
	return newConfiguration(p)
}

func newConfiguration(p *properties.Properties) (*Configuration, error) {
	brokerList, ok := p.Get(BrokerList)
	if !ok || strings.TrimSpace(brokerList) == "" {
		return nil, merror.Newf(merror.ConfigurationError, "missing required property %s", BrokerList)
	}

	topic, ok := p.Get(Topic)
	if !ok || strings.TrimSpace(topic) == "" {
		return nil, merror.Newf(merror.ConfigurationError, "missing required property %s", Topic)
	}

	lingerMs, err := optionalInt(p, LingerMs)
	if err != nil {
		return nil, err
	}
	batchSize, err := optionalInt(p, BatchSize)
	if err != nil {
		return nil, err
	}

	return &Configuration{
		brokers:         splitBrokers(brokerList),
		topic:           strings.TrimSpace(topic),
		keySerializer:   p.GetString(KeySerializer, StringSerializer),
		valueSerializer: p.GetString(ValueSerializer, StringSerializer),
		lingerMs:        lingerMs,
		batchSize:       batchSize,
		props:           p,
	}, nil
}

func optionalInt(p *properties.Properties, key string) (int, error) {
	v, ok := p.Get(key)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, merror.Wrap(merror.ConfigurationError, errors.Wrapf(err, "property %s", key), "invalid integer property")
	}
	return n, nil
}

func splitBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// BrokerList returns a copy of the configured broker endpoints
func (c *Configuration) BrokerList() []string {
	return append([]string(nil), c.brokers...)
}

// Topic returns the destination topic
func (c *Configuration) Topic() string {
	return c.topic
}

// KeySerializer returns the configured key serializer identifier
func (c *Configuration) KeySerializer() string {
	return c.keySerializer
}

// ValueSerializer returns the configured value serializer identifier
func (c *Configuration) ValueSerializer() string {
	return c.valueSerializer
}

// LingerMs returns linger.ms as written in the file, 0 when absent
func (c *Configuration) LingerMs() int {
	return c.lingerMs
}

// BatchSize returns batch.size as written in the file, 0 when absent
func (c *Configuration) BatchSize() int {
	return c.batchSize
}

// Get returns any raw property from the file
func (c *Configuration) Get(key string) (string, bool) {
	return c.props.Get(key)
}

// IsStringSerializer reports whether id names a string serializer.
// Both the fully qualified class name and the short form "string" are accepted.
func IsStringSerializer(id string) bool {
	id = strings.TrimSpace(id)
	return id == StringSerializer || strings.EqualFold(id, "string")
}
