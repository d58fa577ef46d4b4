// Package engine implements the dispatch engine: the bounded blocking
// queue, the single-consumer loop, the two-tier routing index (an
// exact-topic map plus an ordered pattern-topic list), registration and
// unregistration under concurrency, and the start/stop/clear lifecycle.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GoCodeAlone/eventengine"
	"github.com/GoCodeAlone/eventengine/hook"
	"github.com/GoCodeAlone/eventengine/topic"
)

// lifecycle states
const (
	stateIdle int32 = iota
	stateRunning
)

// Stats is a point-in-time snapshot of engine activity, exposed for
// observability and tests in place of the source engine's ad hoc
// performance-demo accessors.
type Stats struct {
	QueueDepth    int
	QueueCapacity int
	Dispatched    uint64
	Dropped       uint64
}

// Engine is the bounded-queue, single-consumer dispatch engine.
type Engine struct {
	cfg    Config
	logger eventengine.Logger
	queue  *queue

	indexMu     sync.RWMutex
	exactIndex  map[string]*hook.Hook
	patternList []*hook.Hook

	seqCounter uint64
	dispatched uint64
	dropped    uint64

	state int32

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	consumerWG  sync.WaitGroup

	stopHooksMu sync.Mutex
	stopHooks   []func()
}

// New creates an idle Engine with the given configuration and logger.
// logger may be nil; lifecycle and failure logging is then skipped.
func New(cfg Config, logger eventengine.Logger) *Engine {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:        cfg,
		logger:     logger,
		queue:      newQueue(cfg.Capacity),
		exactIndex: make(map[string]*hook.Hook),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context returns the engine's current lifecycle context. It is
// cancelled by Stop and replaced by Start. Intended for internal
// collaborators (the timer service) that need to stop alongside the
// engine; not part of the public dispatch contract.
func (e *Engine) Context() context.Context {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	return e.ctx
}

// RegisterStopHook registers fn to run whenever Stop or Clear tears
// down the engine. fn must be idempotent: both Stop and Clear may
// invoke it, and Clear invokes it even though the timer/consumer state
// it targets may already be stopped.
func (e *Engine) RegisterStopHook(fn func()) {
	e.stopHooksMu.Lock()
	defer e.stopHooksMu.Unlock()
	e.stopHooks = append(e.stopHooks, fn)
}

func (e *Engine) runStopHooks() {
	e.stopHooksMu.Lock()
	hooks := make([]func(), len(e.stopHooks))
	copy(hooks, e.stopHooks)
	e.stopHooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func (e *Engine) logInfo(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e *Engine) logWarn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// RegisterHook inserts h into the exact index or the pattern list
// depending on its topic's exactness. It fails with ErrDuplicateTopic
// if a hook is already registered for that topic's canonical value.
func (e *Engine) RegisterHook(h *hook.Hook) error {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()
	return e.registerHookLocked(h)
}

func (e *Engine) registerHookLocked(h *hook.Hook) error {
	value := h.Topic().Value()
	if _, ok := e.exactIndex[value]; ok {
		return ErrDuplicateTopic
	}
	for _, existing := range e.patternList {
		if existing.Topic().Value() == value {
			return ErrDuplicateTopic
		}
	}

	if h.Topic().IsExact() {
		e.exactIndex[value] = h
	} else {
		e.patternList = append(e.patternList, h)
	}
	return nil
}

func (e *Engine) findOrCreateHookLocked(t *topic.Topic) *hook.Hook {
	value := t.Value()
	if h, ok := e.exactIndex[value]; ok {
		return h
	}
	for _, h := range e.patternList {
		if h.Topic().Value() == value {
			return h
		}
	}
	h := hook.New(t, hook.Options{RecordStats: true}, e.logger)
	if t.IsExact() {
		e.exactIndex[value] = h
	} else {
		e.patternList = append(e.patternList, h)
	}
	return h
}

// RegisterHandler registers fn as a without-topic handler on t,
// creating the hook on first use.
func (e *Engine) RegisterHandler(t *topic.Topic, fn hook.Handler, dedupe bool) (hook.Handle, error) {
	e.indexMu.Lock()
	h := e.findOrCreateHookLocked(t)
	e.indexMu.Unlock()
	return h.AddHandler(fn, dedupe)
}

// RegisterTopicHandler registers fn as a with-topic handler on t,
// creating the hook on first use.
func (e *Engine) RegisterTopicHandler(t *topic.Topic, fn hook.TopicHandler, dedupe bool) (hook.Handle, error) {
	e.indexMu.Lock()
	h := e.findOrCreateHookLocked(t)
	e.indexMu.Unlock()
	return h.AddTopicHandler(fn, dedupe)
}

// UnregisterHook removes and returns the hook registered for t.
func (e *Engine) UnregisterHook(t *topic.Topic) (*hook.Hook, error) {
	e.indexMu.Lock()
	defer e.indexMu.Unlock()

	value := t.Value()
	if h, ok := e.exactIndex[value]; ok {
		delete(e.exactIndex, value)
		return h, nil
	}
	for i, h := range e.patternList {
		if h.Topic().Value() == value {
			e.patternList = append(e.patternList[:i], e.patternList[i+1:]...)
			return h, nil
		}
	}
	return nil, ErrUnknownTopic
}

// UnregisterHandler removes handle from the hook registered for t. The
// hook itself is left in place, possibly empty.
func (e *Engine) UnregisterHandler(t *topic.Topic, handle hook.Handle) error {
	h, err := e.lookupHook(t)
	if err != nil {
		return err
	}
	h.RemoveHandler(handle)
	return nil
}

func (e *Engine) lookupHook(t *topic.Topic) (*hook.Hook, error) {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()

	value := t.Value()
	if h, ok := e.exactIndex[value]; ok {
		return h, nil
	}
	for _, h := range e.patternList {
		if h.Topic().Value() == value {
			return h, nil
		}
	}
	return nil, ErrUnknownTopic
}

// PutOption configures a single Put call.
type PutOption func(*putOptions)

type putOptions struct {
	block   bool
	timeout time.Duration
}

// WithBlock overrides the default blocking behaviour (true) for one
// Put call.
func WithBlock(block bool) PutOption {
	return func(o *putOptions) { o.block = block }
}

// WithTimeout bounds how long a blocking Put waits for queue space.
func WithTimeout(d time.Duration) PutOption {
	return func(o *putOptions) { o.timeout = d }
}

// Put enqueues a message addressed to t with loosely-typed positional
// args and keyword kwargs, mirroring the source engine's put(topic,
// *args, **kwargs). t must be exact.
func (e *Engine) Put(ctx context.Context, t *topic.Topic, args []any, kwargs map[string]any, opts ...PutOption) error {
	o := putOptions{block: true, timeout: e.cfg.PublishBlockTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return e.enqueue(ctx, t, args, kwargs, o.block, o.timeout)
}

// Publish enqueues a message built from pre-constructed argument and
// keyword-argument collections, always blocking with no timeout. In a
// statically typed port the distinction the source draws between
// put's argument flattening and publish's pre-built tuple collapses;
// both end up building the same Payload (see SPEC_FULL.md §4.3).
func (e *Engine) Publish(ctx context.Context, t *topic.Topic, args []any, kwargs map[string]any) error {
	return e.enqueue(ctx, t, args, kwargs, true, 0)
}

func (e *Engine) enqueue(ctx context.Context, t *topic.Topic, args []any, kwargs map[string]any, block bool, timeout time.Duration) error {
	if !t.IsExact() {
		return ErrInvalidTopic
	}

	seq := atomic.AddUint64(&e.seqCounter, 1)
	p := Payload{Topic: t, Args: args, Kwargs: kwargs, SeqID: seq}

	err := e.queue.put(ctx, p, block, timeout)
	if err != nil {
		atomic.AddUint64(&e.dropped, 1)
	}
	return err
}

// Get dequeues the next Payload. Mostly useful for tests and
// observability; the consumer loop is the only caller in normal
// operation.
func (e *Engine) Get(ctx context.Context, block bool, timeout time.Duration) (Payload, error) {
	return e.queue.get(ctx, block, timeout)
}

// Start launches the consumer goroutine. Idempotent: calling Start
// while already running is a no-op.
func (e *Engine) Start() {
	if !atomic.CompareAndSwapInt32(&e.state, stateIdle, stateRunning) {
		return
	}

	e.lifecycleMu.Lock()
	e.ctx, e.cancel = context.WithCancel(context.Background())
	ctx := e.ctx
	e.lifecycleMu.Unlock()

	e.consumerWG.Add(1)
	go e.consumeLoop(ctx)
	e.logInfo("engine started", "capacity", e.queue.cap())
}

// Stop signals the consumer to shut down, waits for the in-flight
// payload to finish, and runs every registered stop hook (timers).
// Messages still queued are discarded. Idempotent: calling Stop while
// idle is a no-op.
func (e *Engine) Stop() {
	if !atomic.CompareAndSwapInt32(&e.state, stateRunning, stateIdle) {
		return
	}

	e.lifecycleMu.Lock()
	cancel := e.cancel
	e.lifecycleMu.Unlock()
	cancel()

	e.consumerWG.Wait()
	e.runStopHooks()
	for n := e.queue.len(); n > 0; n-- {
		if _, err := e.queue.get(context.Background(), false, 0); err != nil {
			break
		}
	}
	e.logInfo("engine stopped")
}

// Clear removes every hook. Valid only while idle; while running it is
// rejected, logged, and has no effect. Also runs stop hooks so timers
// are torn down even if the engine was never started.
func (e *Engine) Clear() error {
	if atomic.LoadInt32(&e.state) == stateRunning {
		e.logWarn("clear rejected: engine is running")
		return ErrEngineActive
	}

	e.indexMu.Lock()
	e.exactIndex = make(map[string]*hook.Hook)
	e.patternList = nil
	e.indexMu.Unlock()

	e.runStopHooks()
	return nil
}

// Len returns the total number of registered hooks (exact + pattern).
func (e *Engine) Len() int {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return len(e.exactIndex) + len(e.patternList)
}

// Stats returns a snapshot of queue occupancy and dispatch counters.
func (e *Engine) Stats() Stats {
	return Stats{
		QueueDepth:    e.queue.len(),
		QueueCapacity: e.queue.cap(),
		Dispatched:    atomic.LoadUint64(&e.dispatched),
		Dropped:       atomic.LoadUint64(&e.dropped),
	}
}

func (e *Engine) consumeLoop(ctx context.Context) {
	defer e.consumerWG.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p, err := e.queue.get(ctx, true, 0)
		if err != nil {
			return
		}
		e.dispatch(ctx, p)
	}
}

func (e *Engine) dispatch(ctx context.Context, p Payload) {
	e.indexMu.RLock()
	exact := e.exactIndex[p.Topic.Value()]
	patterns := make([]*hook.Hook, len(e.patternList))
	copy(patterns, e.patternList)
	e.indexMu.RUnlock()

	if exact != nil {
		exact.Trigger(ctx, p.Topic, p.Args, p.Kwargs)
	}
	for _, ph := range patterns {
		res := topic.Match(*ph.Topic(), *p.Topic)
		if res.Matched {
			ph.Trigger(ctx, p.Topic, p.Args, p.Kwargs)
		}
	}
	atomic.AddUint64(&e.dispatched, 1)
}
