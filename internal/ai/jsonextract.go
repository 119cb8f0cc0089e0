package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeTolerant decodes a JSON payload embedded in free-form model output into v.
//
// It strips markdown code fences and tries a strict parse of what remains. If
// that fails it scans for balanced {...} or [...] substrings, in order of
// appearance, and decodes the first one that fits v. Scanning skips brackets
// inside JSON strings. When nothing decodes it returns ErrInvalidResponse.
func DecodeTolerant(raw string, v any) error {
	text := stripFences(raw)
	if text == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	if json.Valid([]byte(text)) && json.Unmarshal([]byte(text), v) == nil {
		return nil
	}

	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		end := balancedEnd(text, start)
		if end < 0 {
			continue
		}
		candidate := []byte(text[start : end+1])
		if json.Valid(candidate) && json.Unmarshal(candidate, v) == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: no JSON payload found", ErrInvalidResponse)
}

// stripFences removes a surrounding ```lang ... ``` block, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// balancedEnd returns the index of the bracket closing the one at start, or -1.
func balancedEnd(s string, start int) int {
	var stack []byte
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
