package analyze

import (
	"encoding/json"
	"strings"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// ParseError means the model reply could not be coerced into JSON. It is
// terminal for the request: no retry, no repair.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return "model reply is not valid JSON: " + e.Snippet
}

// ExtractJSON pulls a JSON value out of a free-form model reply. Exactly one
// extraction strategy applies, in priority order:
//
//  1. the content strictly between a case-sensitive ```json fence and the
//     next closing fence;
//  2. the greedy substring from the first '{' to the last '}';
//  3. the reply unchanged.
//
// A fenced block wins over bare braces; strategies are never chained. The
// chosen substring must be a single valid JSON value or the whole request
// fails with *ParseError.
func ExtractJSON(raw string) (json.RawMessage, error) {
	candidate := raw

	if open := strings.Index(raw, fenceOpen); open >= 0 {
		rest := raw[open+len(fenceOpen):]
		if end := strings.Index(rest, fenceClose); end >= 0 {
			candidate = rest[:end]
		} else {
			candidate = braceSpan(raw)
		}
	} else {
		candidate = braceSpan(raw)
	}

	candidate = strings.TrimSpace(candidate)
	if !json.Valid([]byte(candidate)) {
		return nil, &ParseError{Snippet: truncate(candidate, 120)}
	}
	return json.RawMessage(candidate), nil
}

// braceSpan returns the greedy first-{ to last-} span, or the input unchanged
// when no such span exists.
func braceSpan(raw string) string {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first >= 0 && last > first {
		return raw[first : last+1]
	}
	return raw
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
