package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxRawLength caps how much raw model text is kept for diagnostics.
const MaxRawLength = 4000

// maxCandidateKeys caps TopLevelKeys.
const maxCandidateKeys = 40

// ParseError is returned when model output is not JSON.
type ParseError struct {
	Raw string // truncated to MaxRawLength
	Err error
}

func (e *ParseError) Error() string {
	var syn *json.SyntaxError
	if errors.As(e.Err, &syn) {
		return fmt.Sprintf("model output is not valid JSON at offset %d: %v", syn.Offset, e.Err)
	}
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRaw decodes raw model text. A single surrounding markdown code
// fence is tolerated and stripped first.
func ParseRaw(raw string) (any, error) {
	text := StripFence(raw)
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &ParseError{Raw: Truncate(raw), Err: err}
	}
	return v, nil
}

// StripFence removes a ```json ... ``` (or bare ```) wrapper around text.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop the info string ("json") on the opening line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

// Truncate shortens s to MaxRawLength runes.
func Truncate(s string) string {
	if len(s) <= MaxRawLength {
		return s
	}
	r := []rune(s)
	if len(r) <= MaxRawLength {
		return s
	}
	return string(r[:MaxRawLength])
}

// TopLevelKeys returns the sorted keys of v when it is an object, nil
// otherwise. Failures report it so a wrapped or misnamed document is
// recognisable from logs alone.
func TopLevelKeys(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxCandidateKeys {
		keys = keys[:maxCandidateKeys]
	}
	return keys
}
