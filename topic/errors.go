package topic

import "errors"

// Topic parsing and matching errors.
var (
	// ErrInvalidTopic is returned when a topic string cannot be parsed:
	// it is empty, contains an empty part or an unclosed /regex/ or
	// (range) span, or has a pattern part whose regex fails to compile.
	ErrInvalidTopic = errors.New("topic: invalid topic expression")
)
