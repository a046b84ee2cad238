package decision

import "github.com/awmpietro/golang-dmn-decision-engine/internal/decision/eval"

// ExprEvaluator runs unary tests with the expr-backed eval package.
type ExprEvaluator struct{}

func (ExprEvaluator) Eval(test string, value any) (bool, error) {
	return eval.Eval(test, value)
}
