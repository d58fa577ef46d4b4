package timer

import (
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/eventengine/topic"
)

type cronWorker struct {
	expr     string
	schedule cron.Schedule
	topic    *topic.Topic
	lastFire time.Time
	done     chan struct{}
}

// cronLabelReplacer maps the characters a raw cron expression can
// contain that are illegal inside a topic Exact part to safe stand-ins,
// so "*/5 * * * *" becomes a usable single path segment.
var cronLabelReplacer = strings.NewReplacer(
	" ", "_",
	"\t", "_",
	"/", "-",
	".", "-",
	"(", "",
	")", "",
	"{", "",
	"}", "",
	"+", "p",
	"|", "-",
	"*", "x",
)

func sanitizeCronLabel(expr string) string {
	label := cronLabelReplacer.Replace(strings.TrimSpace(expr))
	if label == "" {
		label = "Cron"
	}
	return label
}

// GetCronTimer returns the reserved topic for a cron expression,
// spawning its worker on first use. expr follows robfig/cron's default
// five-field format (minute hour day-of-month month day-of-week).
func (s *Service) GetCronTimer(expr string) (*topic.Topic, error) {
	s.mu.Lock()
	if w, ok := s.crons[expr]; ok {
		s.mu.Unlock()
		return w.topic, nil
	}
	s.mu.Unlock()

	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, err
	}

	t, err := topic.Intern(ReservedPrefix + "Cron." + sanitizeCronLabel(expr))
	if err != nil {
		return nil, err
	}

	w := &cronWorker{expr: expr, schedule: schedule, topic: t, done: make(chan struct{})}

	s.mu.Lock()
	if existing, ok := s.crons[expr]; ok {
		s.mu.Unlock()
		return existing.topic, nil
	}
	s.crons[expr] = w
	s.mu.Unlock()

	go s.runCron(w)
	return t, nil
}

func (s *Service) runCron(w *cronWorker) {
	for {
		now := time.Now()
		next := w.schedule.Next(now)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.eng.Context().Done():
			timer.Stop()
			return
		case <-w.done:
			timer.Stop()
			return
		case <-timer.C:
			s.safeEmitCron(w, next)
		}
	}
}

func (s *Service) safeEmitCron(w *cronWorker, firedAt time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("cron worker recovered from panic", "topic", w.topic.Value(), "panic", r)
		}
	}()

	var sinceLast float64
	if !w.lastFire.IsZero() {
		sinceLast = firedAt.Sub(w.lastFire).Seconds()
	}
	w.lastFire = firedAt

	kwargs := map[string]any{
		"interval":     sinceLast,
		"trigger_time": float64(firedAt.Unix()),
		"expression":   w.expr,
	}
	if err := s.eng.Publish(s.eng.Context(), w.topic, nil, kwargs); err != nil {
		s.logError("cron publish failed", "topic", w.topic.Value(), "error", err)
	}
}

// stopCronLocked is called from stopAll while s.mu is held. A cron
// worker spawned before Start() watches the pre-Start context, which
// Start() later replaces without cancelling, so closing done is what
// actually stops it promptly rather than waiting for its next firing to
// re-read Context().
func (s *Service) stopCronLocked() {
	for _, w := range s.crons {
		select {
		case <-w.done:
		default:
			close(w.done)
		}
	}
	s.crons = make(map[string]*cronWorker)
}
