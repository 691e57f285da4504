package llm

import "errors"

// ErrCompletion marks any backend failure during a completion call.
// Callers contain it and degrade to their stage fallback.
var ErrCompletion = errors.New("llm: completion failed")

// ErrRateLimited wraps ErrCompletion, so errors.Is(err, ErrCompletion)
// holds for rate-limit failures too.
var ErrRateLimited = &rateLimitError{}

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "llm: rate limit exceeded" }

func (e *rateLimitError) Unwrap() error { return ErrCompletion }
