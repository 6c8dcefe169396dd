package generate

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
)

// getCodec lazily loads the cl100k_base codec. Gemini uses its own
// tokenizer; cl100k_base is a close enough approximation for budgeting.
func getCodec() (tokenizer.Codec, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	return codec, codecErr
}

// countTokens returns the token count for the text, or -1 if the tokenizer
// is unavailable so callers can distinguish failure from a real zero.
func countTokens(text string) int {
	c, err := getCodec()
	if err != nil {
		return -1
	}
	ids, _, err := c.Encode(text)
	if err != nil {
		return -1
	}
	return len(ids)
}

const truncationMarker = "\n... [content truncated]"

// truncateToTokens cuts text down to at most budget tokens, appending a
// marker when anything was removed. Falls back to a byte-length heuristic
// (~4 bytes per token) if the tokenizer is unavailable.
func truncateToTokens(text string, budget int) string {
	if budget <= 0 || text == "" {
		return ""
	}

	c, err := getCodec()
	if err != nil {
		approx := budget * 4
		if len(text) <= approx {
			return text
		}
		return text[:approx] + truncationMarker
	}

	ids, _, err := c.Encode(text)
	if err != nil || len(ids) <= budget {
		return text
	}
	truncated, err := c.Decode(ids[:budget])
	if err != nil {
		approx := budget * 4
		if len(text) <= approx {
			return text
		}
		return text[:approx] + truncationMarker
	}
	return truncated + truncationMarker
}
