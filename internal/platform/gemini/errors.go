package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNilModels is returned when the generator is constructed without a model client.
	ErrNilModels = errors.New("gemini model client cannot be nil")
)
