package blueprint

import "encoding/json"

// Wrapper names the wrapper shape Unwrap removed.
type Wrapper string

const (
	WrapperNone       Wrapper = "none"
	WrapperJSONString Wrapper = "json-string"
	WrapperBlueprint  Wrapper = "blueprint"
	WrapperResult     Wrapper = "result"
	WrapperPayload    Wrapper = "payload"
	WrapperData       Wrapper = "data"
)

// aliasKeys are tried in order. A document is never unwrapped through a
// key that is not listed here.
var aliasKeys = []Wrapper{WrapperBlueprint, WrapperResult, WrapperPayload, WrapperData}

// Unwrap removes one known wrapper from a parsed candidate: a JSON document
// encoded as a string, or an object holding the document under an alias
// key. Anything else is returned unchanged with WrapperNone.
func Unwrap(v any) (any, Wrapper) {
	switch t := v.(type) {
	case string:
		var inner any
		if err := json.Unmarshal([]byte(StripFence(t)), &inner); err != nil {
			return v, WrapperNone
		}
		return inner, WrapperJSONString
	case map[string]any:
		for _, key := range aliasKeys {
			if inner, ok := t[string(key)].(map[string]any); ok {
				return inner, key
			}
		}
	}
	return v, WrapperNone
}
