package llm

import "errors"

// Sentinel errors returned by LLMClient and ExtractJSON. Callers match them
// with errors.Is; errorCode maps them to observer codes.
var (
	ErrUnavailable    = errors.New("llm server unavailable")
	ErrTimeout        = errors.New("llm request timed out")
	ErrInvalidOutput  = errors.New("llm output is not the expected JSON")
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
