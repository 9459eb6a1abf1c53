package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TriState is a boolean that may be unknown. Providers report airline
// capabilities as true, false or "Unknown".
type TriState uint8

const (
	TriStateUnknown TriState = iota
	TriStateTrue
	TriStateFalse
)

const triStateUnknownLabel = "Unknown"

func TriStateOf(b bool) TriState {
	if b {
		return TriStateTrue
	}
	return TriStateFalse
}

// Bool returns the value and whether it is known
func (t TriState) Bool() (value bool, known bool) {
	switch t {
	case TriStateTrue:
		return true, true
	case TriStateFalse:
		return false, true
	default:
		return false, false
	}
}

func (t TriState) String() string {
	switch t {
	case TriStateTrue:
		return "true"
	case TriStateFalse:
		return "false"
	default:
		return triStateUnknownLabel
	}
}

func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case TriStateTrue:
		return []byte("true"), nil
	case TriStateFalse:
		return []byte("false"), nil
	default:
		return json.Marshal(triStateUnknownLabel)
	}
}

// UnmarshalJSON accepts booleans, 0/1, null and the strings "true", "false", "Unknown".
func (t *TriState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch string(data) {
	case "true", "1":
		*t = TriStateTrue
		return nil
	case "false", "0":
		*t = TriStateFalse
		return nil
	case "null", "":
		*t = TriStateUnknown
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tristate: unsupported value %s", string(data))
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		*t = TriStateTrue
	case "false", "no", "0":
		*t = TriStateFalse
	default:
		*t = TriStateUnknown
	}
	return nil
}
