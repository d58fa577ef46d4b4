package engine

import "github.com/GoCodeAlone/eventengine/topic"

// Payload is the in-queue envelope: a topic, a positional argument
// tuple, a keyword argument mapping, and a monotonically increasing
// sequence id. The engine assigns SeqID on enqueue; nothing else
// mutates a Payload once it exists.
type Payload struct {
	Topic  *topic.Topic
	Args   []any
	Kwargs map[string]any
	SeqID  uint64
}
