package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision/cache"
)

type Compiler interface {
	Compile(document string) (*decision.Graph, error)
}

type Engine interface {
	Evaluate(decisionID string, g *decision.Graph, ctx map[string]any) (*decision.Result, error)
}

type TraceEngine interface {
	EvaluateWithTrace(decisionID string, g *decision.Graph, ctx map[string]any) (*decision.Result, *decision.ExecutionTrace, error)
}

type Cache interface {
	GetOrCompute(document string, fn func() (*decision.Graph, error)) (*decision.Graph, error)
}

// Recorder receives evaluation outcomes; metrics.Metrics implements it.
type Recorder interface {
	ObserveEvaluation(outcome string)
	IncrementWarning(code string)
	ObserveCompile(start time.Time)
}

type EvaluateRequest struct {
	ModelXML   string
	DecisionID string
	Input      map[string]any
	Debug      bool
}

type ModelInfo struct {
	ID       string             `json:"id,omitempty"`
	Name     string             `json:"name,omitempty"`
	Hash     string             `json:"hash"`
	Warnings []decision.Warning `json:"warnings,omitempty"`
}

// Evaluation is the outcome of one request. Result is a map for FIRST and
// UNIQUE decisions and a list of maps for COLLECT and RULE_ORDER ones.
type Evaluation struct {
	ID         string
	DecisionID string
	Result     any
	Warnings   []decision.Warning
	Trace      *decision.ExecutionTrace
	Model      *ModelInfo
}

type Service struct {
	compiler Compiler
	engine   Engine
	cache    Cache
	recorder Recorder
	logger   *zap.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

func NewService(compiler Compiler, engine Engine, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{compiler: compiler, engine: engine, cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate compiles (cached) the model and evaluates the requested
// decision on a deep copy of the input. The caller's input is never
// mutated. On failure the returned Evaluation still carries the id, model
// info and, for debug requests, the partial trace.
func (s *Service) Evaluate(req EvaluateRequest) (*Evaluation, error) {
	ev := &Evaluation{ID: uuid.NewString(), DecisionID: req.DecisionID}
	log := s.logger.With(zap.String("evaluation_id", ev.ID), zap.String("decision_id", req.DecisionID))

	if req.ModelXML == "" {
		return ev, fmt.Errorf("model_xml is required")
	}
	if req.DecisionID == "" {
		return ev, fmt.Errorf("decision is required")
	}

	g, info, err := s.compile(req.ModelXML)
	ev.Model = info
	if err != nil {
		s.observe(decision.ErrorKind(err))
		log.Warn("model compilation failed", zap.Error(err))
		return ev, err
	}

	ctx := cloneMap(req.Input)
	start := time.Now()

	var res *decision.Result
	traceEngine, canTrace := s.engine.(TraceEngine)
	if req.Debug && canTrace {
		res, ev.Trace, err = traceEngine.EvaluateWithTrace(req.DecisionID, g, ctx)
	} else {
		res, err = s.engine.Evaluate(req.DecisionID, g, ctx)
	}
	if err != nil {
		kind := decision.ErrorKind(err)
		s.observe(kind)
		log.Warn("decision evaluation failed", zap.String("kind", kind), zap.Error(err))
		return ev, err
	}

	ev.Result = res.Value()
	ev.Warnings = res.Warnings
	s.observe("ok")
	if s.recorder != nil {
		for _, w := range res.Warnings {
			s.recorder.IncrementWarning(w.Code)
		}
	}
	log.Info("decision evaluated",
		zap.String("model_hash", info.Hash),
		zap.Duration("duration", time.Since(start)),
		zap.Int("warnings", len(res.Warnings)))
	return ev, nil
}

// ExportGraph renders the model's decision requirements graph as DOT.
func (s *Service) ExportGraph(modelXML string) (string, *ModelInfo, error) {
	if modelXML == "" {
		return "", nil, fmt.Errorf("model_xml is required")
	}
	g, info, err := s.compile(modelXML)
	if err != nil {
		return "", info, err
	}
	dot, err := decision.ExportDOT(g)
	if err != nil {
		return "", info, err
	}
	return dot, info, nil
}

func (s *Service) compile(modelXML string) (*decision.Graph, *ModelInfo, error) {
	info := &ModelInfo{Hash: cache.Hash(modelXML)}
	g, err := s.cache.GetOrCompute(modelXML, func() (*decision.Graph, error) {
		start := time.Now()
		defer func() {
			if s.recorder != nil {
				s.recorder.ObserveCompile(start)
			}
		}()
		return s.compiler.Compile(modelXML)
	})
	if err != nil {
		return nil, info, err
	}
	info.ID = g.ID
	info.Name = g.Name
	info.Warnings = g.Warnings
	return g, info, nil
}

func (s *Service) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveEvaluation(outcome)
	}
}

// cloneMap deep-copies nested maps and slices, the shapes merging mutates.
func cloneMap(m map[string]any) map[string]any {
	n := make(map[string]any, len(m))
	for k, v := range m {
		n[k] = cloneValue(v)
	}
	return n
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
