package decision

import (
	"fmt"
	"strings"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/dmn"
)

type Compiler struct{}

func NewCompiler() *Compiler { return &Compiler{} }

// Compile parses a DMN document and normalizes it into a Graph.
func (c *Compiler) Compile(document string) (*Graph, error) {
	defs, err := dmn.Parse([]byte(document))
	if err != nil {
		return nil, err
	}

	g, err := BuildGraph(defs.Decisions)
	if err != nil {
		return nil, err
	}
	g.ID = defs.ID
	g.Name = defs.Name
	return g, nil
}

// BuildGraph normalizes every decision that carries a decision table and
// collects its required decisions. Other decisions are ignored.
func BuildGraph(decisions []dmn.Decision) (*Graph, error) {
	g := &Graph{Decisions: make(map[string]*Decision, len(decisions))}

	for _, d := range decisions {
		if d.DecisionTable == nil {
			continue
		}
		if _, dup := g.Decisions[d.ID]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateDecision, d.ID)
		}

		table, warnings, err := NormalizeTable(d.ID, d.DecisionTable)
		if err != nil {
			return nil, err
		}
		g.Warnings = append(g.Warnings, warnings...)

		decision := &Decision{ID: d.ID, Name: d.Name, Table: table}
		for _, req := range d.InformationRequirement {
			if req.RequiredDecision == nil {
				continue
			}
			decision.RequiredDecisions = append(decision.RequiredDecisions, strings.TrimPrefix(req.RequiredDecision.Href, "#"))
		}
		g.Decisions[d.ID] = decision
	}

	return g, nil
}

// NormalizeTable validates a raw decision table. A table without rules is
// legal and reported as a warning.
func NormalizeTable(decisionID string, raw *dmn.DecisionTable) (*DecisionTable, []Warning, error) {
	policy, err := ParseHitPolicy(raw.HitPolicy)
	if err != nil {
		return nil, nil, fmt.Errorf("decision %q: %w", decisionID, err)
	}

	table := &DecisionTable{
		HitPolicy:        policy,
		InputExpressions: make([]string, 0, len(raw.Inputs)),
		OutputNames:      make([]string, 0, len(raw.Outputs)),
		Rules:            make([]Rule, 0, len(raw.Rules)),
	}

	for _, in := range raw.Inputs {
		switch {
		case in.InputExpression != nil && strings.TrimSpace(in.InputExpression.Text) != "":
			table.InputExpressions = append(table.InputExpressions, strings.TrimSpace(in.InputExpression.Text))
		case in.Label != "":
			table.InputExpressions = append(table.InputExpressions, in.Label)
		default:
			return nil, nil, fmt.Errorf("decision %q: %w for input %q", decisionID, ErrMissingInputExpression, in.ID)
		}
	}

	for _, out := range raw.Outputs {
		if out.Name == "" {
			return nil, nil, fmt.Errorf("decision %q: %w %q", decisionID, ErrMissingOutputName, out.ID)
		}
		table.OutputNames = append(table.OutputNames, out.Name)
	}

	var warnings []Warning
	if len(raw.Rules) == 0 {
		warnings = append(warnings, Warning{
			DecisionID: decisionID,
			Code:       WarningNoRules,
			Message:    fmt.Sprintf("the decision table for decision %q contains no rules", decisionID),
		})
	}

	for idx, r := range raw.Rules {
		rule, err := NormalizeRule(r, idx)
		if err != nil {
			return nil, nil, fmt.Errorf("decision %q: %w", decisionID, err)
		}
		if len(rule.InputValues) != len(table.InputExpressions) || len(rule.OutputValues) != len(table.OutputNames) {
			return nil, nil, fmt.Errorf("decision %q rule %d: %w (inputs %d/%d, outputs %d/%d)",
				decisionID, rule.Number, ErrColumnMismatch,
				len(rule.InputValues), len(table.InputExpressions),
				len(rule.OutputValues), len(table.OutputNames))
		}
		table.Rules = append(table.Rules, rule)
	}

	return table, warnings, nil
}

// NormalizeRule converts the rule at 0-based position idx. Input cells are
// classified after trimming surrounding whitespace: empty or whitespace-only
// cells (pretty-printed <text> elements) become the wildcard, and bare
// true/false become string literals so they match the stringified booleans
// the matcher hands to the evaluator. Other cells are kept verbatim.
func NormalizeRule(raw dmn.Rule, idx int) (Rule, error) {
	rule := Rule{
		Number:       idx + 1,
		InputValues:  make([]string, 0, len(raw.InputEntry)),
		OutputValues: make([]Value, 0, len(raw.OutputEntry)),
	}

	for _, entry := range raw.InputEntry {
		text := entry.Text
		switch strings.TrimSpace(text) {
		case "":
			text = "-"
		case "true":
			text = `"true"`
		case "false":
			text = `"false"`
		}
		rule.InputValues = append(rule.InputValues, text)
	}

	for col, entry := range raw.OutputEntry {
		v, err := ParseLiteral(entry.Text)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %d output column %d: %w", rule.Number, col+1, err)
		}
		rule.OutputValues = append(rule.OutputValues, v)
	}

	return rule, nil
}

// ParseHitPolicy accepts the DMN spelling "RULE ORDER" as well as
// RULE_ORDER. An empty attribute means UNIQUE, the DMN default.
func ParseHitPolicy(raw string) (HitPolicy, error) {
	switch strings.TrimSpace(raw) {
	case "", "UNIQUE":
		return HitPolicyUnique, nil
	case "FIRST":
		return HitPolicyFirst, nil
	case "COLLECT":
		return HitPolicyCollect, nil
	case "RULE ORDER", "RULE_ORDER":
		return HitPolicyRuleOrder, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedHitPolicy, raw)
}
