package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON pulls the first JSON object out of raw model output and decodes
// it into T. Markdown fences, prose around the object and // or /* */
// comments are tolerated. A non-nil validator runs on the decoded value.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := firstObject(dropFenceLines(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(stripComments(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// dropFenceLines removes ``` and ```json marker lines, keeping their content.
func dropFenceLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// literalTracker follows JSON string literals byte by byte.
type literalTracker struct {
	inString bool
	escaped  bool
}

// next consumes c and reports whether it belongs to a string literal,
// including the surrounding quotes.
func (t *literalTracker) next(c byte) bool {
	switch {
	case t.escaped:
		t.escaped = false
		return true
	case t.inString && c == '\\':
		t.escaped = true
		return true
	case c == '"':
		t.inString = !t.inString
		return true
	default:
		return t.inString
	}
}

// firstObject returns the first balanced {...} block, ignoring braces inside
// string values.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	var lt literalTracker
	depth := 0
	for i := start; i < len(s); i++ {
		if lt.next(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripComments removes line and block comments outside string values.
// Models sometimes annotate JSON despite instructions not to.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var lt literalTracker
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lt.next(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end == -1 {
					return b.String()
				}
				i += end + 3
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
