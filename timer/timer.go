// Package timer implements boundary-aligned periodic producers that
// inject messages into a dispatch engine via reserved internal topics
// (EventEngine.Internal.Timer.*), plus a supplemental cron-expression
// variant for schedules that do not reduce to a fixed interval.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/GoCodeAlone/eventengine"
	"github.com/GoCodeAlone/eventengine/engine"
	"github.com/GoCodeAlone/eventengine/topic"
)

// ReservedPrefix is the topic namespace the timer service owns. User
// code must not register patterns that intersect this namespace except
// when subscribing to a timer's topic.
const ReservedPrefix = "EventEngine.Internal.Timer."

type intervalWorker struct {
	interval time.Duration
	topic    *topic.Topic
	done     chan struct{}
}

// Service owns every timer worker spawned for one engine. The first
// GetTimer/GetCronTimer call for a given schedule spawns its worker;
// later calls with the same schedule return the existing topic without
// spawning another one. Every worker terminates when the owning
// engine's Stop or Clear runs.
type Service struct {
	eng    *engine.Engine
	logger eventengine.Logger

	mu        sync.Mutex
	intervals map[time.Duration]*intervalWorker
	crons     map[string]*cronWorker
}

// NewService creates a Service bound to eng and registers a stop hook
// so every timer worker is torn down alongside the engine.
func NewService(eng *engine.Engine, logger eventengine.Logger) *Service {
	s := &Service{
		eng:       eng,
		logger:    logger,
		intervals: make(map[time.Duration]*intervalWorker),
		crons:     make(map[string]*cronWorker),
	}
	eng.RegisterStopHook(s.stopAll)
	return s
}

// GetTimer returns the reserved topic for interval, spawning its
// worker on first use. Subsequent calls with the same interval reuse
// the worker.
func (s *Service) GetTimer(interval time.Duration) (*topic.Topic, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("timer: interval must be positive")
	}

	s.mu.Lock()
	if w, ok := s.intervals[interval]; ok {
		s.mu.Unlock()
		return w.topic, nil
	}

	t, err := topic.Intern(ReservedPrefix + LabelFor(interval))
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	w := &intervalWorker{interval: interval, topic: t, done: make(chan struct{})}
	s.intervals[interval] = w
	s.mu.Unlock()

	go s.runInterval(w)
	return t, nil
}

func (s *Service) runInterval(w *intervalWorker) {
	next := time.Now().Truncate(w.interval).Add(w.interval)
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-s.eng.Context().Done():
			return
		case <-w.done:
			return
		case tick := <-timer.C:
			s.safeEmit(w.topic, w.interval, tick)
			next = next.Add(w.interval)
			if d := time.Until(next); d > 0 {
				timer.Reset(d)
			} else {
				// the consumer fell behind by more than one interval;
				// resync to the next boundary instead of firing a burst
				next = time.Now().Truncate(w.interval).Add(w.interval)
				timer.Reset(time.Until(next))
			}
		}
	}
}

// safeEmit recovers from a panic in the publish path so one bad tick
// does not kill the worker; the spec requires a timer worker fault to
// be logged and the worker to keep ticking.
func (s *Service) safeEmit(t *topic.Topic, interval time.Duration, firedAt time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("timer worker recovered from panic", "topic", t.Value(), "panic", r)
		}
	}()

	kwargs := map[string]any{
		"interval":     interval.Seconds(),
		"trigger_time": float64(firedAt.Unix()),
	}
	if err := s.eng.Publish(s.eng.Context(), t, nil, kwargs); err != nil {
		s.logError("timer publish failed", "topic", t.Value(), "error", err)
	}
}

func (s *Service) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

func (s *Service) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.intervals {
		select {
		case <-w.done:
		default:
			close(w.done)
		}
	}
	s.stopCronLocked()
}
