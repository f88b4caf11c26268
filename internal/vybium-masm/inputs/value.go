package inputs

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Value is a field element as written in an input file: either a JSON
// number or a string holding a decimal or 0x-prefixed hex literal. Values
// must be canonical, that is below the field modulus.
type Value uint64

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}

	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n, err = strconv.ParseUint(text[2:], 16, 64)
	} else {
		n, err = strconv.ParseUint(text, 10, 64)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid value %s", string(data))
	}
	if n >= field.P {
		return errors.Errorf("value %d is not a canonical field element", n)
	}
	*v = Value(n)
	return nil
}

// MarshalJSON writes values as decimal strings, which survive JSON readers
// that decode numbers as float64
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(v), 10))
}

// Element returns the value as a field element
func (v Value) Element() field.Element {
	return field.New(uint64(v))
}

func toUint64s(values []Value) []uint64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = uint64(v)
	}
	return out
}

func toElements(values []Value) []field.Element {
	out := make([]field.Element, len(values))
	for i, v := range values {
		out[i] = v.Element()
	}
	return out
}
