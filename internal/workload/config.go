package workload

import (
	"github.com/magiconair/properties"
	"github.com/razorpay/kafkabench/internal/merror"
)

// Operations the driver can issue against the binding.
const (
	OperationInsert = "insert"
	OperationUpdate = "update"
)

// Runtime property keys, named as in the core workload files.
const (
	RecordCountKey = "recordcount"
	FieldCountKey  = "fieldcount"
	FieldLengthKey = "fieldlength"
	ThreadCountKey = "threadcount"
	TableKey       = "table"
	InsertStartKey = "insertstart"
	KeyPrefixKey   = "keyprefix"
)

// Config describes one run of the driver
type Config struct {
	Operation   string
	Table       string
	KeyPrefix   string
	RecordCount int
	InsertStart int
	FieldCount  int
	FieldLength int
	ThreadCount int
}

// DefaultConfig returns the defaults used when a property is absent
func DefaultConfig() Config {
	return Config{
		Operation:   OperationInsert,
		Table:       "usertable",
		KeyPrefix:   "user",
		RecordCount: 1000,
		FieldCount:  10,
		FieldLength: 100,
		ThreadCount: 1,
	}
}

// ConfigFromProperties overlays runtime properties on top of defaults
func ConfigFromProperties(p *properties.Properties, defaults Config) Config {
	if p == nil {
		return defaults
	}
	return Config{
		Operation:   defaults.Operation,
		Table:       p.GetString(TableKey, defaults.Table),
		KeyPrefix:   p.GetString(KeyPrefixKey, defaults.KeyPrefix),
		RecordCount: p.GetInt(RecordCountKey, defaults.RecordCount),
		InsertStart: p.GetInt(InsertStartKey, defaults.InsertStart),
		FieldCount:  p.GetInt(FieldCountKey, defaults.FieldCount),
		FieldLength: p.GetInt(FieldLengthKey, defaults.FieldLength),
		ThreadCount: p.GetInt(ThreadCountKey, defaults.ThreadCount),
	}
}

// Validate ...
func (c Config) Validate() error {
	if c.Operation != OperationInsert && c.Operation != OperationUpdate {
		return merror.Newf(merror.ConfigurationError, "unsupported operation %q", c.Operation)
	}
	if c.RecordCount < 0 || c.InsertStart < 0 {
		return merror.New(merror.ConfigurationError, "recordcount and insertstart must not be negative")
	}
	if c.FieldCount <= 0 || c.FieldLength <= 0 {
		return merror.New(merror.ConfigurationError, "fieldcount and fieldlength must be positive")
	}
	if c.ThreadCount <= 0 {
		return merror.New(merror.ConfigurationError, "threadcount must be positive")
	}
	return nil
}
