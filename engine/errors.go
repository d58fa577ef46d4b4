package engine

import "errors"

// Engine operation errors.
var (
	// ErrInvalidTopic is returned by Put/Publish when the target topic
	// is not exact.
	ErrInvalidTopic = errors.New("engine: topic must be exact")

	// ErrDuplicateTopic is returned by RegisterHook when a hook is
	// already registered for that topic's value.
	ErrDuplicateTopic = errors.New("engine: topic already registered")

	// ErrUnknownTopic is returned by Unregister* when no hook is
	// registered for the given topic.
	ErrUnknownTopic = errors.New("engine: topic not registered")

	// ErrFull is returned by a non-blocking or timed-out Put against a
	// full queue.
	ErrFull = errors.New("engine: queue full")

	// ErrEmpty is returned by a non-blocking or timed-out Get against
	// an empty queue.
	ErrEmpty = errors.New("engine: queue empty")

	// ErrEngineActive is returned by Clear when the engine is running;
	// clear is only valid while idle.
	ErrEngineActive = errors.New("engine: clear rejected, engine is running")
)
