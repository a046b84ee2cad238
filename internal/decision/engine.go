package decision

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// UnaryEvaluator decides whether value satisfies a single-variable unary
// test such as `<30`, `"m"` or `-`.
type UnaryEvaluator interface {
	Eval(test string, value any) (bool, error)
}

const defaultMaxDepth = 256

type Engine struct {
	eval            UnaryEvaluator
	logger          *zap.Logger
	latencyObserver DecisionLatencyObserver
	maxDepth        int
}

type EngineOption func(*Engine)

func WithDecisionLatencyObserver(observer DecisionLatencyObserver) EngineOption {
	return func(e *Engine) {
		e.latencyObserver = observer
	}
}

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth bounds the length of a required-decision chain. Values <= 0
// disable the bound.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

func NewEngine(eval UnaryEvaluator, opts ...EngineOption) *Engine {
	e := &Engine{eval: eval, logger: zap.NewNop(), maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// evaluation is the state of one top-level Evaluate call. It is never
// shared between calls.
type evaluation struct {
	graph    *Graph
	ctx      map[string]any
	visited  map[string]bool
	stack    []string
	warnings []Warning
	trace    *ExecutionTrace
}

// Evaluate computes decisionID against ctx. Required decisions are evaluated
// first, each at most once per call, and their results merged into ctx,
// which is therefore mutated.
func (e *Engine) Evaluate(decisionID string, g *Graph, ctx map[string]any) (*Result, error) {
	res, _, err := e.run(decisionID, g, ctx, false)
	return res, err
}

// EvaluateWithTrace is Evaluate plus a per-decision trace. The trace is
// returned on failure too.
func (e *Engine) EvaluateWithTrace(decisionID string, g *Graph, ctx map[string]any) (*Result, *ExecutionTrace, error) {
	return e.run(decisionID, g, ctx, true)
}

func (e *Engine) run(decisionID string, g *Graph, ctx map[string]any, withTrace bool) (*Result, *ExecutionTrace, error) {
	if g == nil || g.Decisions == nil {
		return nil, nil, fmt.Errorf("decision graph is nil")
	}
	if ctx == nil {
		ctx = map[string]any{}
	}

	ev := &evaluation{graph: g, ctx: ctx, visited: map[string]bool{}}
	if withTrace {
		ev.trace = &ExecutionTrace{Decision: decisionID}
	}

	res, err := e.evaluateDecision(ev, decisionID)
	if err != nil {
		if ev.trace != nil {
			ev.trace.Error = err.Error()
		}
		return nil, ev.trace, err
	}
	res.Warnings = ev.warnings
	return res, ev.trace, nil
}

func (e *Engine) evaluateDecision(ev *evaluation, id string) (*Result, error) {
	decision, ok := ev.graph.Decisions[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDecision, id)
	}
	if slices.Contains(ev.stack, id) {
		return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(append(slices.Clone(ev.stack), id), " -> "))
	}
	if e.maxDepth > 0 && len(ev.stack) >= e.maxDepth {
		return nil, fmt.Errorf("%w (%d) at decision %q", ErrMaxDepthExceeded, e.maxDepth, id)
	}

	ev.stack = append(ev.stack, id)
	defer func() { ev.stack = ev.stack[:len(ev.stack)-1] }()

	for _, req := range decision.RequiredDecisions {
		if ev.visited[req] {
			continue
		}
		e.logger.Debug("evaluating required decision",
			zap.String("decision_id", id),
			zap.String("required_decision_id", req))
		reqResult, err := e.evaluateDecision(ev, req)
		if err != nil {
			return nil, err
		}
		Merge(ev.ctx, reqResult.Value())
		ev.visited[req] = true
	}

	start := time.Now()
	res, step, err := e.evaluateTable(ev, decision)
	duration := time.Since(start)
	e.observeDecisionLatency(id, duration)
	if ev.trace != nil {
		step.DurationMicros = duration.Microseconds()
		ev.trace.Order = append(ev.trace.Order, id)
		ev.trace.Steps = append(ev.trace.Steps, step)
	}
	return res, err
}

func (e *Engine) evaluateTable(ev *evaluation, decision *Decision) (*Result, TraceStep, error) {
	table := decision.Table
	step := TraceStep{DecisionID: decision.ID, HitPolicy: table.HitPolicy, MatchedRules: []int{}}

	inputs := make([]ResolvedInput, len(table.InputExpressions))
	for i, expression := range table.InputExpressions {
		name := InputVariableName(expression)
		value, ok := ev.ctx[name]
		if !ok && strings.Contains(name, ".") {
			value, _ = Resolve(name, ev.ctx)
		}
		inputs[i] = ResolvedInput{Name: name, Value: value}
	}
	if ev.trace != nil {
		step.Inputs = inputs
	}

	res := &Result{DecisionID: decision.ID, HitPolicy: table.HitPolicy}
	single := table.HitPolicy.SingleResult()
	if single {
		res.Output = map[string]any{}
		for _, name := range table.OutputNames {
			SetOrAdd(name, res.Output, nil)
		}
	} else {
		res.Outputs = []map[string]any{}
	}

	hasMatch := false
	for _, rule := range table.Rules {
		m, err := MatchRule(e.eval, decision.ID, rule, inputs, table.OutputNames)
		if ev.trace != nil {
			rt := RuleTrace{Number: rule.Number, Matched: m.Matched}
			if err != nil {
				rt.Error = err.Error()
			}
			step.Rules = append(step.Rules, rt)
		}
		if err != nil {
			return nil, step, err
		}
		if !m.Matched {
			continue
		}

		if hasMatch && table.HitPolicy == HitPolicyUnique {
			return nil, step, fmt.Errorf("decision %q: %w (rules %d and %d)", decision.ID, ErrNonUniqueMatch, step.MatchedRules[0], rule.Number)
		}
		hasMatch = true
		step.MatchedRules = append(step.MatchedRules, rule.Number)

		if !single {
			res.Outputs = append(res.Outputs, m.Output)
			continue
		}
		for _, name := range table.OutputNames {
			value, _ := Resolve(name, m.Output)
			SetOrAdd(name, res.Output, value)
		}
		if table.HitPolicy == HitPolicyFirst {
			break
		}
	}

	if !hasMatch && len(table.Rules) > 0 {
		w := Warning{
			DecisionID: decision.ID,
			Code:       WarningNoMatch,
			Message:    fmt.Sprintf("no rule matched for decision %q", decision.ID),
		}
		ev.warnings = append(ev.warnings, w)
		e.logger.Warn(w.Message, zap.String("decision_id", w.DecisionID), zap.String("code", w.Code))
	}

	return res, step, nil
}

func (e *Engine) observeDecisionLatency(decisionID string, duration time.Duration) {
	if e.latencyObserver == nil {
		return
	}
	e.latencyObserver.ObserveDecisionLatency(decisionID, duration)
}

// InputVariableName maps an input label to the context key it reads:
// the first character is lower-cased and all whitespace removed, so
// "Has Grandchildren" reads hasGrandchildren.
func InputVariableName(label string) string {
	if label == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(label)
	lowered := string(unicode.ToLower(r)) + label[size:]
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}
