package kafkaprops

import (
	"strings"

	"github.com/magiconair/properties"
	"github.com/razorpay/kafkabench/internal/merror"
)

const (
	// StaticColumnPrefix marks runtime properties injected into every record
	StaticColumnPrefix = "static_col"

	// PropertiesPathKey overrides the bundled kafka.properties with a file on disk
	PropertiesPathKey = "kafka.properties.path"
)

// NewRuntime returns an empty runtime property set that keeps values verbatim
func NewRuntime() *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	return p
}

// LoadRuntime builds the harness runtime properties. Files are loaded in order, later
// files winning, and overrides are applied last. Values are never expanded.
func LoadRuntime(paths []string, overrides map[string]string) (*properties.Properties, error) {
	p := NewRuntime()
	if len(paths) > 0 {
		loaded, err := loader.LoadAll(paths)
		if err != nil {
			return nil, merror.Wrap(merror.ConfigurationError, err, "failed to load runtime properties")
		}
		p.Merge(loaded)
	}

	for k, v := range overrides {
		if _, _, err := p.Set(k, v); err != nil {
			return nil, merror.Wrapf(merror.ConfigurationError, err, "invalid runtime property %s", k)
		}
	}
	return p, nil
}

// ParseOverrides turns "key=value" pairs into a map. The first '=' separates key from value.
func ParseOverrides(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			return nil, merror.Newf(merror.ConfigurationError, "property %q is not of the form key=value", pair)
		}
		overrides[pair[:idx]] = pair[idx+1:]
	}
	return overrides, nil
}

// StaticColumns extracts static_col.<name>=value entries from the runtime properties.
// The column name is the segment after the first '.'; keys without one are skipped.
func StaticColumns(runtime *properties.Properties) map[string]string {
	cols := make(map[string]string)
	if runtime == nil {
		return cols
	}

	for _, key := range runtime.Keys() {
		if !strings.HasPrefix(key, StaticColumnPrefix) {
			continue
		}
		segments := strings.Split(key, ".")
		if len(segments) < 2 || segments[1] == "" {
			continue
		}
		value, _ := runtime.Get(key)
		cols[segments[1]] = value
	}
	return cols
}
