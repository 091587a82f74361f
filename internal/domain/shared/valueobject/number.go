package valueobject

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Number is a decimal read from a bare JSON number. Quoted values are
// rejected so that "1.5" and 1.5 are not interchangeable on input.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// MustParseNumber parses s and panics on error. Intended for tests and constants.
func MustParseNumber(s string) Number {
	return Number{Decimal: decimal.RequireFromString(s)}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(float64(0))}
	}
	return n.Decimal.UnmarshalJSON(data)
}
