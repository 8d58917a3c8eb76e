// Package binding exposes a kafka producer through the key-value plugin contract
// used by the workload driver.
//
// Writes (insert and update) are appended to a topic as JSON records. Reads,
// scans and deletes have no meaning for a producer and report NotImplemented.
package binding

import (
	"context"

	"github.com/razorpay/kafkabench/internal/merror"
)

// Status is the outcome of a single plugin operation
type Status int

const (
	// OK the operation succeeded
	OK Status = iota
	// Error the operation failed
	Error
	// NotImplemented the binding does not support the operation
	NotImplemented
)

// String ...
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Error:
		return "ERROR"
	case NotImplemented:
		return "NOT_IMPLEMENTED"
	}
	return "UNKNOWN"
}

// IsOK ...
func (s Status) IsOK() bool {
	return s == OK
}

// StatusOf maps an operation error to the status reported to the driver
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	if merror.Is(err, merror.NotImplemented) {
		return NotImplemented
	}
	return Error
}

// DB is the plugin contract the workload driver programs against.
// Init is called once before any operation and Cleanup once after the last one.
// Operations may be called concurrently.
type DB interface {
	Init(ctx context.Context) error
	Cleanup(ctx context.Context) error

	Read(ctx context.Context, table string, key string, fields []string, result map[string][]byte) Status
	Scan(ctx context.Context, table string, startKey string, recordCount int, fields []string, result *[]map[string][]byte) Status
	Update(ctx context.Context, table string, key string, values map[string][]byte) Status
	Insert(ctx context.Context, table string, key string, values map[string][]byte) Status
	Delete(ctx context.Context, table string, key string) Status
}
