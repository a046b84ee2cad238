package decision

import "strconv"

// Match is the verdict of one rule. Output is only set when Matched.
type Match struct {
	Matched bool
	Output  map[string]any
}

// MatchRule tests each input cell of rule against the resolved input in the
// same column, stopping at the first failing cell. On a full match the
// output object is assembled from the rule's output cells, dotted output
// names producing nested objects.
func MatchRule(ev UnaryEvaluator, decisionID string, rule Rule, inputs []ResolvedInput, outputNames []string) (Match, error) {
	for i, test := range rule.InputValues {
		ok, err := ev.Eval(test, conditionValue(inputs[i].Value))
		if err != nil {
			return Match{}, &RuleConditionError{
				DecisionID: decisionID,
				Rule:       rule.Number,
				Column:     i + 1,
				Expression: test,
				Err:        err,
			}
		}
		if !ok {
			return Match{}, nil
		}
	}

	out := make(map[string]any, len(outputNames))
	for i, name := range outputNames {
		SetOrAdd(name, out, rule.OutputValues[i].Interface())
	}
	return Match{Matched: true, Output: out}, nil
}

// conditionValue stringifies booleans. Input cells holding true/false are
// normalized to the string literals "true"/"false" (see NormalizeRule), so
// boolean context values have to be compared as strings too.
func conditionValue(v any) any {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return v
}
