package eval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// FEEL numbers: no exponent, no hex, no inf/nan.
var numberLiteral = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)$`)

// SyntaxError reports a unary test that cannot be parsed.
type SyntaxError struct {
	Test   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid unary test %q: %s", e.Test, e.Reason)
}

// UnaryTest is a parsed unary test: a wildcard, or a (possibly negated)
// disjunction of positive tests against a single input value.
type UnaryTest struct {
	Any     bool
	Negated bool
	Tests   []PositiveTest
}

// PositiveTest is either a comparison (Op + Bound) or an interval.
type PositiveTest struct {
	Op       string
	Bound    any
	Interval *Interval
}

type Interval struct {
	Low, High         any
	LowOpen, HighOpen bool
}

// Parse parses the FEEL unary test subset the engine supports:
// "-", comparisons (<, <=, >, >=, =, !=), plain literals, intervals
// ([a..b], (a..b), ]a..b[), comma separated lists, not(...) and the
// input-variable form "? <op> literal".
// Literals are numbers, double quoted strings, true, false and null. A bare
// name is an unbound variable and evaluates to null, so it only matches a
// null input.
func Parse(test string) (*UnaryTest, error) {
	src := strings.TrimSpace(test)
	if src == "" || src == "-" {
		return &UnaryTest{Any: true}, nil
	}

	ut := &UnaryTest{}
	if strings.HasPrefix(src, "not(") && strings.HasSuffix(src, ")") {
		ut.Negated = true
		src = strings.TrimSpace(src[len("not(") : len(src)-1])
		if src == "" {
			return nil, &SyntaxError{Test: test, Reason: "empty not()"}
		}
	}

	parts, err := splitTopLevel(src)
	if err != nil {
		return nil, &SyntaxError{Test: test, Reason: err.Error()}
	}
	for _, part := range parts {
		pt, err := parsePositive(part)
		if err != nil {
			return nil, &SyntaxError{Test: test, Reason: err.Error()}
		}
		ut.Tests = append(ut.Tests, pt)
	}
	return ut, nil
}

func parsePositive(s string) (PositiveTest, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PositiveTest{}, fmt.Errorf("empty test in list")
	}

	questionMark := strings.HasPrefix(s, "?")
	if questionMark {
		s = strings.TrimSpace(s[1:])
		if s == "" {
			return PositiveTest{}, fmt.Errorf("? must be followed by a comparison")
		}
	}

	if !questionMark && strings.ContainsAny(s[:1], "[(]") && strings.ContainsAny(s[len(s)-1:], "])[") && strings.Contains(s, "..") {
		return parseInterval(s)
	}

	for _, op := range []string{"<=", ">=", "!=", "<", ">", "="} {
		if strings.HasPrefix(s, op) {
			bound, err := parseLiteral(strings.TrimSpace(s[len(op):]))
			if err != nil {
				return PositiveTest{}, err
			}
			if op == "=" {
				op = "=="
			}
			return PositiveTest{Op: op, Bound: bound}, nil
		}
	}
	if questionMark {
		return PositiveTest{}, fmt.Errorf("? must be followed by a comparison")
	}

	bound, err := parseLiteral(s)
	if err != nil {
		return PositiveTest{}, err
	}
	return PositiveTest{Op: "==", Bound: bound}, nil
}

func parseInterval(s string) (PositiveTest, error) {
	iv := &Interval{
		LowOpen:  s[0] != '[',
		HighOpen: s[len(s)-1] != ']',
	}
	body := s[1 : len(s)-1]
	idx := strings.Index(body, "..")
	if idx < 0 {
		return PositiveTest{}, fmt.Errorf("interval %q without ..", s)
	}

	var err error
	if iv.Low, err = parseLiteral(strings.TrimSpace(body[:idx])); err != nil {
		return PositiveTest{}, err
	}
	if iv.High, err = parseLiteral(strings.TrimSpace(body[idx+2:])); err != nil {
		return PositiveTest{}, err
	}
	if !orderable(iv.Low, iv.High) {
		return PositiveTest{}, fmt.Errorf("interval %q mixes incompatible endpoints", s)
	}
	return PositiveTest{Interval: iv}, nil
}

func parseLiteral(s string) (any, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("missing operand")
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s == "null":
		return nil, nil
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		unq, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("malformed string literal %s", s)
		}
		return unq, nil
	}

	if numberLiteral.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number %s", s)
		}
		return f, nil
	}
	if i := strings.IndexByte(s, '('); i > 0 && isIdent(s[:i]) {
		return nil, fmt.Errorf("function calls are not allowed (found %q(...))", s[:i])
	}
	if isIdent(s) {
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported operand %q", s)
}

// splitTopLevel splits on commas that are outside string literals and
// interval brackets.
func splitTopLevel(s string) ([]string, error) {
	var out []string
	var b strings.Builder
	inQuotes := false
	escape := false
	depth := 0

	for _, r := range s {
		switch {
		case escape:
			escape = false
		case inQuotes && r == '\\':
			escape = true
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == '(' || r == '[':
			if depth > 0 && strings.Contains(b.String(), "..") {
				// `]a..b[` closes with an opening bracket
				depth--
			} else {
				depth++
			}
		case r == ')' || r == ']':
			if depth == 0 && strings.TrimSpace(b.String()) == "" {
				// `]a..b[` opens with a closing bracket
				depth++
			} else {
				depth--
			}
		case r == ',' && depth == 0:
			out = append(out, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated string literal")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	return append(out, b.String()), nil
}

func isIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return s != ""
}
