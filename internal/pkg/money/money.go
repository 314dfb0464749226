// Package money decodes monetary amounts from request bodies.
package money

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Amount is a decimal.Decimal whose decode errors carry the JSON field name.
// Both JSON numbers and numeric strings are accepted.
type Amount struct {
	decimal.Decimal
}

// New returns an Amount parsed from s. It panics on invalid input and is
// meant for constants and tests.
func New(s string) *Amount {
	return &Amount{Decimal: decimal.RequireFromString(s)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(Amount{})}
	}
	a.Decimal = d
	return nil
}

// jsonKind names the JSON value in the style of encoding/json errors.
func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "value"
	}
	switch data[0] {
	case '"':
		return "string " + string(data)
	case 't', 'f':
		return "bool"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "number " + string(data)
	}
}
