package frequency

import "errors"

var (
	// ErrTopicNotFound is returned when a topic is missing from a topic table.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrInvalidTopicFile is returned when a topic file is not a mapping of
	// topic names to keyword lists.
	ErrInvalidTopicFile = errors.New("invalid topic file")
)
