package decision

type HitPolicy string

const (
	HitPolicyFirst     HitPolicy = "FIRST"
	HitPolicyUnique    HitPolicy = "UNIQUE"
	HitPolicyCollect   HitPolicy = "COLLECT"
	HitPolicyRuleOrder HitPolicy = "RULE_ORDER"
)

// SingleResult reports whether the policy yields one output object rather
// than a list of them.
func (h HitPolicy) SingleResult() bool {
	return h == HitPolicyFirst || h == HitPolicyUnique
}

// Graph is the decision requirements graph of one DMN document. It is
// read-only once built and can be shared between concurrent evaluations.
type Graph struct {
	ID        string
	Name      string
	Decisions map[string]*Decision
	Warnings  []Warning
}

type Decision struct {
	ID                string
	Name              string
	Table             *DecisionTable
	RequiredDecisions []string
}

type DecisionTable struct {
	HitPolicy        HitPolicy
	InputExpressions []string
	OutputNames      []string
	Rules            []Rule
}

type Rule struct {
	Number       int
	InputValues  []string
	OutputValues []Value
}

// ResolvedInput is the context value bound to one input column.
type ResolvedInput struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

const (
	WarningNoRules = "no_rules"
	WarningNoMatch = "no_match"
)

type Warning struct {
	DecisionID string `json:"decision_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Result is the outcome of evaluating one decision. Output is set for FIRST
// and UNIQUE tables, Outputs for COLLECT and RULE_ORDER tables.
type Result struct {
	DecisionID string
	HitPolicy  HitPolicy
	Output     map[string]any
	Outputs    []map[string]any
	Warnings   []Warning
}

// Value returns the active output shape: a map or a slice of maps.
func (r *Result) Value() any {
	if r.HitPolicy.SingleResult() {
		return r.Output
	}
	return r.Outputs
}
