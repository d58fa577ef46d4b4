// Package hook implements the per-topic handler bundle: two ordered
// handler buckets (one for handlers that want the matched topic passed
// in, one for handlers that do not), trigger semantics with per-handler
// exception isolation, and optional per-handler call statistics.
package hook

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GoCodeAlone/eventengine"
	"github.com/GoCodeAlone/eventengine/topic"
)

// Handler is the signature for a handler that does not want the
// matched topic. It is the systems-language substitute for parameter
// introspection: a handler is classified at registration time by which
// Add method the caller uses, not by inspecting its signature.
type Handler func(ctx context.Context, args []any, kwargs map[string]any) error

// TopicHandler is the signature for a handler that wants the matched
// topic passed in alongside the payload.
type TopicHandler func(ctx context.Context, matched *topic.Topic, args []any, kwargs map[string]any) error

// Stats records per-handler call counts and cumulative wall time,
// updated around every invocation including failed ones.
type Stats struct {
	Calls       uint64
	TotalTimeNS uint64
}

func (s *Stats) snapshot() Stats {
	return Stats{
		Calls:       atomic.LoadUint64(&s.Calls),
		TotalTimeNS: atomic.LoadUint64(&s.TotalTimeNS),
	}
}

// Options configures a Hook's dispatch policy.
type Options struct {
	// RetryOnUnexpectedTopicArg mirrors the source engine's retry policy
	// for with-topic handlers. TopicHandler's signature always declares
	// its topic parameter explicitly, so the failure mode that policy
	// guarded against (a callable that cannot accept a topic keyword)
	// cannot occur in this typed port; the field is kept for config
	// fidelity and documented as a no-op (see DESIGN.md).
	RetryOnUnexpectedTopicArg bool

	// RecordStats enables per-handler Stats tracking.
	RecordStats bool
}

type withoutEntry struct {
	handle Handle
	fn     Handler
}

type withEntry struct {
	handle Handle
	fn     TopicHandler
}

// Hook bundles every handler registered against one topic expression.
type Hook struct {
	topic  *topic.Topic
	opts   Options
	logger eventengine.Logger

	mu           sync.RWMutex
	withoutTopic []withoutEntry
	withTopic    []withEntry
	dedupWithout map[uintptr]Handle
	dedupWith    map[uintptr]Handle

	statsMu sync.Mutex
	stats   map[Handle]*Stats
}

// New creates a Hook owning t. logger may be nil, in which case handler
// failures are silently dropped (callers should normally supply one).
func New(t *topic.Topic, opts Options, logger eventengine.Logger) *Hook {
	return &Hook{
		topic:  t,
		opts:   opts,
		logger: logger,
		stats:  make(map[Handle]*Stats),
	}
}

// Topic returns the hook's owning topic.
func (h *Hook) Topic() *topic.Topic {
	return h.topic
}

// AddHandler registers fn into the without-topic bucket. When dedupe is
// true, a second add of a function with the same underlying code
// pointer is a no-op and returns the original handle (Go function
// values are not comparable by ==, so identity is approximated via
// reflect.Value.Pointer(), which is stable for non-closures).
func (h *Hook) AddHandler(fn Handler, dedupe bool) (Handle, error) {
	if fn == nil {
		return Handle{}, ErrHandlerNil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dedupe {
		// Keys on fn's code pointer, not its identity: two distinct
		// closures from the same literal collapse to the same key. Handle
		// is the real identity; this is a best-effort convenience for the
		// common case of registering a named function twice.
		key := reflect.ValueOf(fn).Pointer()
		if h.dedupWithout == nil {
			h.dedupWithout = make(map[uintptr]Handle)
		}
		if existing, ok := h.dedupWithout[key]; ok {
			return existing, nil
		}
		handle := newHandle(false)
		h.withoutTopic = append(h.withoutTopic, withoutEntry{handle, fn})
		h.dedupWithout[key] = handle
		h.initStats(handle)
		return handle, nil
	}

	handle := newHandle(false)
	h.withoutTopic = append(h.withoutTopic, withoutEntry{handle, fn})
	h.initStats(handle)
	return handle, nil
}

// AddTopicHandler registers fn into the with-topic bucket, subject to
// the same deduplication rule as AddHandler.
func (h *Hook) AddTopicHandler(fn TopicHandler, dedupe bool) (Handle, error) {
	if fn == nil {
		return Handle{}, ErrHandlerNil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dedupe {
		// Same code-pointer caveat as AddHandler: collapses distinct
		// closures sharing a literal, fine for the named-function case.
		key := reflect.ValueOf(fn).Pointer()
		if h.dedupWith == nil {
			h.dedupWith = make(map[uintptr]Handle)
		}
		if existing, ok := h.dedupWith[key]; ok {
			return existing, nil
		}
		handle := newHandle(true)
		h.withTopic = append(h.withTopic, withEntry{handle, fn})
		h.dedupWith[key] = handle
		h.initStats(handle)
		return handle, nil
	}

	handle := newHandle(true)
	h.withTopic = append(h.withTopic, withEntry{handle, fn})
	h.initStats(handle)
	return handle, nil
}

// RemoveHandler removes the handler registered under handle, dropping
// its statistics. It reports whether a handler was found.
func (h *Hook) RemoveHandler(handle Handle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if handle.withTopic {
		for i, e := range h.withTopic {
			if e.handle == handle {
				h.withTopic = append(h.withTopic[:i], h.withTopic[i+1:]...)
				for k, v := range h.dedupWith {
					if v == handle {
						delete(h.dedupWith, k)
					}
				}
				h.dropStats(handle)
				return true
			}
		}
		return false
	}

	for i, e := range h.withoutTopic {
		if e.handle == handle {
			h.withoutTopic = append(h.withoutTopic[:i], h.withoutTopic[i+1:]...)
			for k, v := range h.dedupWithout {
				if v == handle {
					delete(h.dedupWithout, k)
				}
			}
			h.dropStats(handle)
			return true
		}
	}
	return false
}

// Contains reports whether handle is currently registered.
func (h *Hook) Contains(handle Handle) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if handle.withTopic {
		for _, e := range h.withTopic {
			if e.handle == handle {
				return true
			}
		}
		return false
	}
	for _, e := range h.withoutTopic {
		if e.handle == handle {
			return true
		}
	}
	return false
}

// Len returns the total number of registered handlers across both
// buckets.
func (h *Hook) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.withoutTopic) + len(h.withTopic)
}

// Clear removes every handler and every recorded statistic.
func (h *Hook) Clear() {
	h.mu.Lock()
	h.withoutTopic = nil
	h.withTopic = nil
	h.dedupWithout = nil
	h.dedupWith = nil
	h.mu.Unlock()

	h.statsMu.Lock()
	h.stats = make(map[Handle]*Stats)
	h.statsMu.Unlock()
}

// GetStats returns the recorded statistics for handle, if RecordStats
// is enabled and handle is currently registered. Removing a handler or
// clearing the hook discards its statistics.
func (h *Hook) GetStats(handle Handle) (Stats, bool) {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	s, ok := h.stats[handle]
	if !ok {
		return Stats{}, false
	}
	return s.snapshot(), true
}

func (h *Hook) initStats(handle Handle) {
	if !h.opts.RecordStats {
		return
	}
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	h.stats[handle] = &Stats{}
}

func (h *Hook) dropStats(handle Handle) {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	delete(h.stats, handle)
}

func (h *Hook) recordCall(handle Handle, elapsed time.Duration) {
	if !h.opts.RecordStats {
		return
	}
	h.statsMu.Lock()
	s, ok := h.stats[handle]
	h.statsMu.Unlock()
	if !ok {
		return
	}
	atomic.AddUint64(&s.Calls, 1)
	atomic.AddUint64(&s.TotalTimeNS, uint64(elapsed.Nanoseconds()))
}

// Trigger invokes every without-topic handler in registration order
// with (args, kwargs), then every with-topic handler with (matched,
// args, kwargs). Each call receives its own copy of args and kwargs so
// one handler's mutation cannot leak into the next. A handler that
// panics or returns an error is logged and does not stop the
// remaining handlers from running.
func (h *Hook) Trigger(ctx context.Context, matched *topic.Topic, args []any, kwargs map[string]any) {
	h.mu.RLock()
	without := make([]withoutEntry, len(h.withoutTopic))
	copy(without, h.withoutTopic)
	with := make([]withEntry, len(h.withTopic))
	copy(with, h.withTopic)
	h.mu.RUnlock()

	for _, e := range without {
		h.callWithout(ctx, e, args, kwargs)
	}
	for _, e := range with {
		h.callWith(ctx, e, matched, args, kwargs)
	}
}

func (h *Hook) callWithout(ctx context.Context, e withoutEntry, args []any, kwargs map[string]any) {
	start := time.Now()
	err := safeCallWithout(ctx, e.fn, cloneArgs(args), cloneKwargs(kwargs))
	h.recordCall(e.handle, time.Since(start))
	if err != nil {
		h.logFailure(e.handle, err)
	}
}

func (h *Hook) callWith(ctx context.Context, e withEntry, matched *topic.Topic, args []any, kwargs map[string]any) {
	start := time.Now()
	err := safeCallWith(ctx, e.fn, matched, cloneArgs(args), cloneKwargs(kwargs))
	h.recordCall(e.handle, time.Since(start))
	if err != nil {
		h.logFailure(e.handle, err)
	}
}

func (h *Hook) logFailure(handle Handle, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error("event handler failed",
		"topic", h.topic.Value(),
		"handle", handle.String(),
		"error", err)
}

func safeCallWithout(ctx context.Context, fn Handler, args []any, kwargs map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn(ctx, args, kwargs)
}

func safeCallWith(ctx context.Context, fn TopicHandler, matched *topic.Topic, args []any, kwargs map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn(ctx, matched, args, kwargs)
}

func cloneArgs(args []any) []any {
	if args == nil {
		return nil
	}
	cp := make([]any, len(args))
	copy(cp, args)
	return cp
}

func cloneKwargs(kwargs map[string]any) map[string]any {
	if kwargs == nil {
		return nil
	}
	cp := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		cp[k] = v
	}
	return cp
}
