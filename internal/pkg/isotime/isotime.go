// Package isotime decodes ISO-8601 timestamps with or without a zone offset.
package isotime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Layouts tried in order. Values without an offset are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time is a time.Time that accepts naive ISO-8601 input.
type Time struct {
	time.Time
}

// Parse reads s using the accepted layouts.
func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("isotime: cannot parse %q as ISO-8601", s)
}

// UnmarshalJSON reports bad input as a *json.UnmarshalTypeError so the
// decoder attaches the name of the offending field.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return &json.UnmarshalTypeError{Value: "non-string " + string(data), Type: reflect.TypeOf(Time{})}
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + string(data), Type: reflect.TypeOf(Time{})}
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON()
}
