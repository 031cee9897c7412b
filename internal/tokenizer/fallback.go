package tokenizer

import "github.com/agentlog/supercompact/internal/compacterr"

// CountWithFallback counts text with c, and on failure falls back to the
// byte-based Estimator, returning the TokenizerError as a non-fatal
// warning per spec §7: a tokenizer failure degrades the estimate, it
// never aborts the pass.
func CountWithFallback(c Counter, text string) (int, *compacterr.TokenizerError) {
	n, err := c.Count(text)
	if err == nil {
		return n, nil
	}
	fallback, _ := Estimator{}.Count(text)
	return fallback, &compacterr.TokenizerError{Reason: err.Error()}
}
