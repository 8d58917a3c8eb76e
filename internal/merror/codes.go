package merror

// Code is internal error code type
type Code int

const (
	// ConfigurationError is returned when the bundled or runtime properties cannot be loaded
	ConfigurationError Code = iota + 1
	// ConnectionError is returned when the producer client cannot be constructed
	ConnectionError
	// LifecycleError is returned when an operation is invoked in the wrong adapter state
	LifecycleError
	// NotImplemented is returned for operations the binding does not support
	NotImplemented
	// Unknown ...
	Unknown
)

var codeNames = map[Code]string{
	ConfigurationError: "ConfigurationError",
	ConnectionError:    "ConnectionError",
	LifecycleError:     "LifecycleError",
	NotImplemented:     "NotImplemented",
	Unknown:            "Unknown",
}

// String returns the name of the code
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[Unknown]
}
