package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/app"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/config"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision/cache"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/metrics"
	"github.com/awmpietro/golang-dmn-decision-engine/internal/transport/httptransport"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New(prometheus.DefaultRegisterer)

	compiler := decision.NewCompiler()
	latencyObserver := decision.NewAsyncDecisionLatencyObserver(
		decision.MultiObserver{m, decision.NewDecisionLatencyLogger(logger)},
		cfg.ObsBuffer,
	)
	defer latencyObserver.Close()
	engine := decision.NewEngine(
		decision.ExprEvaluator{},
		decision.WithDecisionLatencyObserver(latencyObserver),
		decision.WithMaxDepth(cfg.DecisionMaxDepth),
		decision.WithLogger(logger),
	)
	c := cache.NewInMemory(cfg.CacheMaxItems)

	svc := app.NewService(compiler, engine, c, app.WithLogger(logger), app.WithRecorder(m))
	h := httptransport.NewHandler(svc)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, httptransport.NewRouter(h, prometheus.DefaultGatherer)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
