package decision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindStructured
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindStructured:
		return "structured"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a typed output cell literal.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	b    bool
	obj  any // map[string]any or []any
}

func Null() Value { return Value{} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the Go representation used in contexts and results.
// Whole numbers become int, other numbers float64. Structured values are
// deep-copied so callers may mutate the result freely.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int(v.num)
		}
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindStructured:
		return deepCopy(v.obj)
	}
	return nil
}

// ParseLiteral parses an output cell. Empty text is null; anything else
// must be a JSON literal.
func ParseLiteral(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Null(), nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("%w %q: %v", ErrInvalidOutputLiteral, text, err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("%w %q: trailing data", ErrInvalidOutputLiteral, text)
	}

	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w %q: %v", ErrInvalidOutputLiteral, text, err)
		}
		return Number(f), nil
	default:
		return Value{kind: KindStructured, obj: fromJSON(t)}, nil
	}
}

// fromJSON converts json.Number leaves the same way Interface does for
// top-level numbers.
func fromJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = fromJSON(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = fromJSON(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	}
	return v
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	}
	return v
}
