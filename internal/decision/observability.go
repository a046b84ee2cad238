package decision

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type DecisionLatencyObserver interface {
	ObserveDecisionLatency(decisionID string, duration time.Duration)
}

type DecisionLatencyLogger struct {
	logger *zap.Logger
}

func NewDecisionLatencyLogger(logger *zap.Logger) *DecisionLatencyLogger {
	return &DecisionLatencyLogger{logger: logger}
}

func (l *DecisionLatencyLogger) ObserveDecisionLatency(decisionID string, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug("decision_latency",
		zap.String("decision_id", decisionID),
		zap.Float64("duration_ms", float64(duration.Microseconds())/1000.0))
}

// MultiObserver fans one observation out to several observers.
type MultiObserver []DecisionLatencyObserver

func (m MultiObserver) ObserveDecisionLatency(decisionID string, duration time.Duration) {
	for _, o := range m {
		if o != nil {
			o.ObserveDecisionLatency(decisionID, duration)
		}
	}
}

// AsyncDecisionLatencyObserver forwards observations to next on a single
// goroutine. Observations made while the buffer is full or after Close
// are dropped and counted.
type AsyncDecisionLatencyObserver struct {
	next    DecisionLatencyObserver
	events  chan latencyEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type latencyEvent struct {
	decisionID string
	duration   time.Duration
}

func NewAsyncDecisionLatencyObserver(next DecisionLatencyObserver, buffer int) *AsyncDecisionLatencyObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncDecisionLatencyObserver{
		next:   next,
		events: make(chan latencyEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveDecisionLatency(ev.decisionID, ev.duration)
		}
	}()

	return o
}

func (o *AsyncDecisionLatencyObserver) ObserveDecisionLatency(decisionID string, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- latencyEvent{decisionID: decisionID, duration: duration}:
	default:
		o.dropped.Add(1)
	}
}

func (o *AsyncDecisionLatencyObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close stops accepting observations and waits for the buffered ones to be
// delivered.
func (o *AsyncDecisionLatencyObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
