package decision

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedHitPolicy   = errors.New("unsupported hit policy")
	ErrMissingInputExpression = errors.New("no input variable or expression set")
	ErrMissingOutputName      = errors.New("no name set for output")
	ErrInvalidOutputLiteral   = errors.New("invalid output literal")
	ErrColumnMismatch         = errors.New("rule column count does not match table")
	ErrDuplicateDecision      = errors.New("duplicate decision id")
	ErrUnknownDecision        = errors.New("no such decision")
	ErrNonUniqueMatch         = errors.New("more than one rule matched but hit policy is UNIQUE")
	ErrCyclicDependency       = errors.New("cyclic decision dependency")
	ErrMaxDepthExceeded       = errors.New("max decision depth exceeded")
)

// RuleConditionError wraps a failure of the unary evaluator on one input
// cell. Column is 1-based.
type RuleConditionError struct {
	DecisionID string
	Rule       int
	Column     int
	Expression string
	Err        error
}

func (e *RuleConditionError) Error() string {
	return fmt.Sprintf("failed to evaluate rule %d of decision %q: input condition in column %d %q: %v",
		e.Rule, e.DecisionID, e.Column, e.Expression, e.Err)
}

func (e *RuleConditionError) Unwrap() error { return e.Err }

// ErrorKind classifies an evaluation or compile error into a short label
// suitable for logs and metrics.
func ErrorKind(err error) string {
	var rce *RuleConditionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rce):
		return "rule_condition"
	case errors.Is(err, ErrUnknownDecision):
		return "unknown_decision"
	case errors.Is(err, ErrNonUniqueMatch):
		return "non_unique_match"
	case errors.Is(err, ErrCyclicDependency):
		return "cyclic_dependency"
	case errors.Is(err, ErrMaxDepthExceeded):
		return "max_depth_exceeded"
	case errors.Is(err, ErrUnsupportedHitPolicy),
		errors.Is(err, ErrMissingInputExpression),
		errors.Is(err, ErrMissingOutputName),
		errors.Is(err, ErrInvalidOutputLiteral),
		errors.Is(err, ErrColumnMismatch),
		errors.Is(err, ErrDuplicateDecision):
		return "invalid_model"
	}
	return "other"
}
