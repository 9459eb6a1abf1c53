package common

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RoundedInt decodes provider minute counts that arrive as integers, floats,
// numeric strings or null. Fractions are rounded up. Valid is false for null.
type RoundedInt struct {
	Value int
	Valid bool
}

func (ri *RoundedInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" || len(b) == 0 {
		*ri = RoundedInt{}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*ri = RoundedInt{}
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		f = parsed
	}

	*ri = RoundedInt{Value: int(math.Ceil(f)), Valid: true}
	return nil
}

// Ptr returns nil when the value was absent or null
func (ri RoundedInt) Ptr() *int {
	if !ri.Valid {
		return nil
	}
	v := ri.Value
	return &v
}
