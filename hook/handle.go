package hook

import "github.com/google/uuid"

// Handle identifies one registered handler. The source implementation
// this engine is modelled on compares handlers by callable identity;
// Go function values are not comparable, so registration returns an
// explicit handle instead and every removal/lookup is keyed on it (see
// the handler-identity open question in DESIGN.md).
type Handle struct {
	id        string
	withTopic bool
}

// String returns the handle's opaque identifier.
func (h Handle) String() string {
	return h.id
}

// IsZero reports whether h is the zero Handle, i.e. was never assigned
// by AddHandler/AddTopicHandler.
func (h Handle) IsZero() bool {
	return h.id == ""
}

func newHandle(withTopic bool) Handle {
	return Handle{id: uuid.New().String(), withTopic: withTopic}
}
