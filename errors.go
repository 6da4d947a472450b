package tokeneval

import "github.com/tokenbench/tokeneval/api"

// Sentinel errors re-exported from api, where the subpackages that wrap
// them live. Match with errors.Is.
var (
	// ErrQueryNotFound is returned when a run references a query ID the store does not contain
	ErrQueryNotFound = api.ErrQueryNotFound
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = api.ErrLLMGenerationFailed
	// ErrInvalidVerdict is returned when a judge reply cannot be decoded into a verdict
	ErrInvalidVerdict = api.ErrInvalidVerdict
)
