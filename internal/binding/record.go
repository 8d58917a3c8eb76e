package binding

import (
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Fields injected into every record.
const (
	UUIDField      = "uuid"
	TimestampField = "ts"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// buildRecord merges the caller's fields, the record key and capture time, and the
// static columns into a fresh map. Later sources overwrite earlier ones.
func buildRecord(key string, fields map[string]string, staticCols map[string]string, now time.Time) map[string]string {
	record := make(map[string]string, len(fields)+len(staticCols)+2)
	for k, v := range fields {
		record[k] = v
	}
	record[UUIDField] = key
	record[TimestampField] = strconv.FormatInt(now.UnixMilli(), 10)
	for k, v := range staticCols {
		record[k] = v
	}
	return record
}

func encodeRecord(record map[string]string) ([]byte, error) {
	return json.Marshal(record)
}

// stringMap converts the driver's byte values into strings
func stringMap(values map[string][]byte) map[string]string {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = string(v)
	}
	return m
}
