package decision

type ExecutionTrace struct {
	Decision string      `json:"decision"`
	Order    []string    `json:"order"`
	Steps    []TraceStep `json:"steps"`
	Error    string      `json:"error,omitempty"`
}

// TraceStep records one decision table evaluation. Steps appear in
// completion order, required decisions first.
type TraceStep struct {
	DecisionID     string          `json:"decision_id"`
	HitPolicy      HitPolicy       `json:"hit_policy"`
	DurationMicros int64           `json:"duration_micros"`
	Inputs         []ResolvedInput `json:"inputs,omitempty"`
	Rules          []RuleTrace     `json:"rules,omitempty"`
	MatchedRules   []int           `json:"matched_rules"`
}

type RuleTrace struct {
	Number  int    `json:"number"`
	Matched bool   `json:"matched"`
	Error   string `json:"error,omitempty"`
}
