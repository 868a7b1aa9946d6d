package blueprint

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

// Rule is one check in the validation chain. Check receives the decoded
// JSON candidate and never mutates it.
type Rule interface {
	Name() string
	Check(doc any) Violations
}

// StructuralRule validates the candidate against the compiled JSON schema:
// closed key sets, enum members, cardinalities and integer ranges.
type StructuralRule struct{}

func (StructuralRule) Name() string { return "structural" }

var printer = message.NewPrinter(language.English)

func (r StructuralRule) Check(doc any) Violations {
	s, err := compiledSchema()
	if err != nil {
		return Violations{{Message: fmt.Sprintf("schema unavailable: %v", err)}}
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Violations{{Message: err.Error()}}
	}
	var out Violations
	collectLeaves(ve, &out)
	return out
}

// collectLeaves flattens the cause tree. Only leaves carry a specific
// failure; inner nodes just name the schema location.
func collectLeaves(ve *jsonschema.ValidationError, out *Violations) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collectLeaves(c, out)
		}
		return
	}
	at := joinPath(ve.InstanceLocation...)
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range k.Missing {
			*out = append(*out, Violation{Path: joinPath(at, name), Message: "is required"})
		}
	case *kind.AdditionalProperties:
		for _, name := range k.Properties {
			*out = append(*out, Violation{Path: joinPath(at, name), Message: "is not allowed"})
		}
	default:
		*out = append(*out, Violation{Path: at, Message: ve.ErrorKind.LocalizedString(printer)})
	}
}

// RoleModuleRule checks that modules holds exactly the populated module for
// header.role. Other module keys must be absent; null and {} are rejected.
type RoleModuleRule struct{}

func (RoleModuleRule) Name() string { return "role-module" }

func (RoleModuleRule) Check(doc any) Violations {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	header, _ := root["header"].(map[string]any)
	roleStr, _ := header["role"].(string)
	role := intake.Role(roleStr)
	if !role.Valid() {
		// Reported by the structural rule.
		return nil
	}
	mods, ok := root["modules"].(map[string]any)
	if !ok {
		return nil
	}

	want := role.Key()
	var out Violations
	for _, key := range ModuleKeys {
		val, present := mods[key]
		path := joinPath("modules", key)
		if key != want {
			if present {
				out = append(out, Violation{Path: path, Message: fmt.Sprintf("must be absent when header.role is %q", role)})
			}
			continue
		}
		if !present {
			out = append(out, Violation{Path: path, Message: fmt.Sprintf("is required when header.role is %q", role)})
			continue
		}
		if m, ok := val.(map[string]any); !ok || len(m) == 0 {
			out = append(out, Violation{Path: path, Message: "must be a fully populated object"})
		}
	}
	return out
}

// FlowDurationRule checks that every session's flow minutes add up to the
// session's durationMinutes.
type FlowDurationRule struct{}

func (FlowDurationRule) Name() string { return "flow-duration" }

func (FlowDurationRule) Check(doc any) Violations {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	mods, _ := root["modules"].(map[string]any)

	var out Violations
	check := func(path string, v any) {
		s, ok := v.(map[string]any)
		if !ok {
			return
		}
		declared, ok := asInt(s["durationMinutes"])
		if !ok {
			return
		}
		flow, ok := s["flow"].([]any)
		if !ok || len(flow) == 0 {
			return
		}
		sum := 0
		for _, item := range flow {
			seg, _ := item.(map[string]any)
			m, ok := asInt(seg["minutes"])
			if !ok {
				// Mistyped segments are reported structurally.
				return
			}
			sum += m
		}
		if sum != declared {
			out = append(out, Violation{
				Path:    joinPath(path, "flow"),
				Message: fmt.Sprintf("flow minutes sum to %d but durationMinutes is %d", sum, declared),
			})
		}
	}

	if teacher, ok := mods[intake.RoleTeacher.Key()].(map[string]any); ok {
		plan, _ := teacher["lessonPlan"].(map[string]any)
		eachItem(plan["sessions"], "modules.teacher.lessonPlan.sessions", check)
	}
	if pastor, ok := mods[intake.RolePastorLeader.Key()].(map[string]any); ok {
		eachItem(pastor["sessions"], "modules.pastorLeader.sessions", func(path string, v any) {
			s, _ := v.(map[string]any)
			check(joinPath(path, "sessionPlan"), s["sessionPlan"])
		})
	}
	if youth, ok := mods[intake.RoleYouthLeader.Key()].(map[string]any); ok {
		plan, _ := youth["activityIntegratedPlan"].(map[string]any)
		eachItem(plan["sessions"], "modules.youthLeader.activityIntegratedPlan.sessions", check)
	}
	return out
}

func eachItem(v any, path string, fn func(path string, item any)) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	for i, item := range items {
		fn(joinPath(path, fmt.Sprint(i)), item)
	}
}

// asInt accepts whole numbers only; 12.5 is not a minute count.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// DefaultRules is the chain every candidate passes through.
func DefaultRules() []Rule {
	return []Rule{StructuralRule{}, RoleModuleRule{}, FlowDurationRule{}}
}
