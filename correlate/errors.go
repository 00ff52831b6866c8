package correlate

import "errors"

var (
	// ErrScoreOutOfRange is returned when a correlation score falls outside
	// the configured score range, usually because the embedding provider
	// does not produce vectors on the expected scale.
	ErrScoreOutOfRange = errors.New("correlation score outside configured range")

	// ErrEmbeddingCountMismatch is returned when the provider returns a
	// different number of vectors than texts were sent.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")

	// ErrCorrelatorRequired is returned when a tagger is built without a correlator.
	ErrCorrelatorRequired = errors.New("keyword correlator required")

	// ErrNoTokens is returned when tagging an empty token subset.
	ErrNoTokens = errors.New("no tokens to tag")
)
