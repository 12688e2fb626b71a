package log

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Entry is one structured log record.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Caller    string
	RequestID string
	Message   string
	Fields    map[string]any
}

// reservedKeys are written by Entry itself. A field with one of these names
// is emitted under "field.<name>" instead.
var reservedKeys = map[string]bool{
	"timestamp":  true,
	"level":      true,
	"msg":        true,
	"caller":     true,
	"request_id": true,
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(level Level, msg string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]any),
	}
}

// With adds alternating key/value pairs to the entry's fields.
func (e *Entry) With(keysAndValues ...any) *Entry {
	addPairs(e.Fields, keysAndValues)
	return e
}

// MarshalJSON writes the fixed keys first, then the fields in key order.
// caller and request_id are omitted when empty. error values are written
// as their message.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, value any) error {
		if v, ok := value.(error); ok && v != nil {
			value = v.Error()
		}
		data, err := encodeValue(value)
		if err != nil {
			return err
		}
		k, err := encodeValue(key)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	fixed := []struct {
		key   string
		value string
		skip  bool
	}{
		{"timestamp", e.Timestamp.UTC().Format(time.RFC3339Nano), false},
		{"level", e.Level.String(), false},
		{"msg", e.Message, false},
		{"caller", e.Caller, e.Caller == ""},
		{"request_id", e.RequestID, e.RequestID == ""},
	}
	for _, f := range fixed {
		if f.skip {
			continue
		}
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if reservedKeys[k] {
			name = "field." + k
		}
		if err := write(name, e.Fields[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue marshals v without HTML escaping so post URLs stay readable.
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
