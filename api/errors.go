package api

import "errors"

var (
	// ErrQueryNotFound is returned when a run references a query ID the store does not contain
	ErrQueryNotFound = errors.New("query not found in store")
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = errors.New("LLM generation failed")
	// ErrInvalidVerdict is returned when a judge reply cannot be decoded into a verdict
	ErrInvalidVerdict = errors.New("invalid judge verdict")
)
