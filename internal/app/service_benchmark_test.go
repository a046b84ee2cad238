package app

import (
	"testing"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision/cache"
)

func benchmarkService() *Service {
	compiler := decision.NewCompiler()
	engine := decision.NewEngine(decision.ExprEvaluator{})
	c := cache.NewInMemory(1024)
	return NewService(compiler, engine, c)
}

func benchRequest(model string) EvaluateRequest {
	return EvaluateRequest{
		ModelXML:   model,
		DecisionID: "host",
		Input: map[string]any{
			"season":             "Fall",
			"guestCount":         4,
			"guestsWithChildren": true,
			"hasGrandchildren":   false,
		},
	}
}

func BenchmarkServiceEvaluateCached(b *testing.B) {
	svc := benchmarkService()
	model := readModel(b, "dinner.dmn")

	if _, err := svc.Evaluate(benchRequest(model)); err != nil {
		b.Fatalf("warmup evaluate failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Evaluate(benchRequest(model)); err != nil {
			b.Fatalf("evaluate failed: %v", err)
		}
	}
}

func BenchmarkServiceEvaluateCachedParallel(b *testing.B) {
	svc := benchmarkService()
	model := readModel(b, "dinner.dmn")

	if _, err := svc.Evaluate(benchRequest(model)); err != nil {
		b.Fatalf("warmup evaluate failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.Evaluate(benchRequest(model)); err != nil {
				b.Fatalf("evaluate failed: %v", err)
			}
		}
	})
}
