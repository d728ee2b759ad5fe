package llm

import "errors"

// Boundary errors for language-model calls.
var (
	ErrClassification = errors.New("classification failed")
	ErrExtraction     = errors.New("entity extraction failed")
	ErrGeneration     = errors.New("text generation failed")
	ErrEmptyResponse  = errors.New("model returned empty response")
)
