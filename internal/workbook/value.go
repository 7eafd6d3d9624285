package workbook

import (
	"encoding/json"
	"strconv"
)

// Kind classifies a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is the computed value of a cell.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
	// Err explains why a formula could not be evaluated. It is set only for
	// KindError and is usually a *formula.Error.
	Err error
}

// String renders the value for display. Errors render as "#ERROR".
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindError:
		return "#ERROR"
	default:
		return ""
	}
}

// Interface returns the value as a plain Go value: nil, float64, string, or
// a map with a single "error" key.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindText:
		return v.Text
	case KindError:
		return map[string]any{"error": v.errMessage()}
	default:
		return nil
	}
}

func (v Value) errMessage() string {
	if v.Err == nil {
		return "unknown error"
	}
	return v.Err.Error()
}

type jsonValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...} or
// {"kind": "error", "error": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	out := jsonValue{Kind: v.Kind.String()}
	switch v.Kind {
	case KindNumber:
		out.Value = v.Number
	case KindText:
		out.Value = v.Text
	case KindError:
		out.Error = v.errMessage()
	}
	return json.Marshal(out)
}
