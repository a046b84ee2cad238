// Package eval evaluates FEEL style unary tests against a single value.
// Comparisons run as precompiled expr programs over {value, bound}.
package eval

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var programs = map[string]*vm.Program{
	"<":  mustCompile("value < bound"),
	"<=": mustCompile("value <= bound"),
	">":  mustCompile("value > bound"),
	">=": mustCompile("value >= bound"),
	"==": mustCompile("value == bound"),
	"!=": mustCompile("value != bound"),
}

func mustCompile(code string) *vm.Program {
	p, err := expr.Compile(code, expr.AsBool())
	if err != nil {
		panic(fmt.Sprintf("eval: compile %q: %v", code, err))
	}
	return p
}

// Eval parses test and matches value against it.
func Eval(test string, value any) (bool, error) {
	ut, err := Parse(test)
	if err != nil {
		return false, err
	}
	return ut.Match(value)
}

// Match reports whether value satisfies the unary test.
func (u *UnaryTest) Match(value any) (bool, error) {
	if u.Any {
		return true, nil
	}

	value = normalize(value)
	matched := false
	for _, t := range u.Tests {
		ok, err := t.match(value)
		if err != nil {
			return false, err
		}
		if ok {
			matched = true
			break
		}
	}

	if u.Negated {
		return !matched, nil
	}
	return matched, nil
}

func (t PositiveTest) match(value any) (bool, error) {
	if t.Interval == nil {
		return compare(t.Op, value, t.Bound)
	}

	lowOp, highOp := ">=", "<="
	if t.Interval.LowOpen {
		lowOp = ">"
	}
	if t.Interval.HighOpen {
		highOp = "<"
	}
	ok, err := compare(lowOp, value, t.Interval.Low)
	if err != nil || !ok {
		return false, err
	}
	return compare(highOp, value, t.Interval.High)
}

func compare(op string, value, bound any) (bool, error) {
	program, ok := programs[op]
	if !ok {
		return false, fmt.Errorf("unknown operator %q", op)
	}
	if op != "==" && op != "!=" && !orderable(value, bound) {
		// null and mismatched types never satisfy an ordering test
		return false, nil
	}

	out, err := expr.Run(program, map[string]any{"value": value, "bound": bound})
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("test must evaluate to bool (got %T)", out)
	}
	return b, nil
}

func orderable(a, b any) bool {
	switch a.(type) {
	case float64:
		_, ok := b.(float64)
		return ok
	case string:
		_, ok := b.(string)
		return ok
	}
	return false
}

// normalize widens every Go numeric kind to float64 so values coming from
// JSON, literals and Go callers compare alike.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}
