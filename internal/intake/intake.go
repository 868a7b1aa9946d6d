// Package intake defines the planning questionnaire a blueprint is generated
// from, its validation rules, and the deterministic derivation of the fields
// a requester may leave out.
package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Intake is the requester's planning request as received. Optional enum
// fields are empty when absent; optional free-text fields are pointers so
// that "absent" and "blank" can be told apart.
type Intake struct {
	Task                  Task        `json:"task"`
	Role                  Role        `json:"role,omitempty"`
	DesignType            DesignType  `json:"designType,omitempty"`
	TimeHorizon           TimeHorizon `json:"timeHorizon,omitempty"`
	AgeGroup              AgeGroup    `json:"ageGroup"`
	GroupName             string      `json:"groupName"`
	LeaderName            *string     `json:"leaderName,omitempty"`
	DesiredOutcome        string      `json:"desiredOutcome"`
	TopicOrText           *string     `json:"topicOrText,omitempty"`
	Setting               Setting     `json:"setting"`
	SettingDetail         *string     `json:"settingDetail,omitempty"`
	Duration              Duration    `json:"duration"`
	DurationCustomMinutes *int        `json:"durationCustomMinutes,omitempty"`
	Constraints           []string    `json:"constraints,omitempty"`
}

// FieldError is one rejected field. Path uses the JSON key names; nested
// positions are dotted ("constraints.1"). The empty path means the body.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// InvalidError is returned when an intake fails validation. It always holds
// every violation found, sorted by path.
type InvalidError struct {
	Violations []FieldError
}

func (e *InvalidError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "invalid intake: " + strings.Join(parts, "; ")
}

// Fields groups the violation messages by path, the shape clients render
// next to form inputs.
func (e *InvalidError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Path] = append(out[v.Path], v.Message)
	}
	return out
}

// Parse decodes a JSON request body into an Intake. Type mismatches and
// malformed JSON are reported as an *InvalidError; Parse does not run the
// field rules, call Validate for that.
func Parse(data []byte) (Intake, error) {
	var in Intake
	if len(bytes.TrimSpace(data)) == 0 {
		return in, &InvalidError{Violations: []FieldError{{Message: "request body is empty"}}}
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return Intake{}, &InvalidError{Violations: []FieldError{decodeViolation(err)}}
	}
	return in, nil
}

func decodeViolation(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return FieldError{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("expected %s, got %s", jsonKind(typeErr.Type.Kind().String()), typeErr.Value),
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return FieldError{Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	}
	return FieldError{Message: "request body must be a JSON object"}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int64", "int32":
		return "integer"
	case "slice":
		return "array"
	case "struct", "map":
		return "object"
	default:
		return goKind
	}
}

// Validate checks required fields, enum membership and the conditional
// rules. It collects every violation rather than stopping at the first.
func (in Intake) Validate() error {
	var v violations

	if in.Task == "" {
		v.add("task", "is required")
	} else if !in.Task.Valid() {
		v.add("task", oneOf(TaskOptions))
	}
	if in.Role != "" && !in.Role.Valid() {
		v.add("role", oneOf(RoleOptions))
	}
	if in.DesignType != "" && !in.DesignType.Valid() {
		v.add("designType", oneOf(DesignTypeOptions))
	}
	if in.TimeHorizon != "" && !in.TimeHorizon.Valid() {
		v.add("timeHorizon", oneOf(TimeHorizonOptions))
	}
	if in.AgeGroup == "" {
		v.add("ageGroup", "is required")
	} else if !in.AgeGroup.Valid() {
		v.add("ageGroup", oneOf(AgeGroupOptions))
	}

	if strings.TrimSpace(in.GroupName) == "" {
		v.add("groupName", "is required")
	}
	if in.LeaderName != nil && strings.TrimSpace(*in.LeaderName) == "" {
		v.add("leaderName", "must not be blank")
	}
	if n := len([]rune(strings.TrimSpace(in.DesiredOutcome))); n < MinDesiredOutcome {
		v.add("desiredOutcome", fmt.Sprintf("must be at least %d characters", MinDesiredOutcome))
	}

	switch {
	case in.Setting == "":
		v.add("setting", "is required")
	case !in.Setting.Valid():
		v.add("setting", oneOf(SettingOptions))
	case in.Setting == SettingOther && blank(in.SettingDetail):
		v.add("settingDetail", `is required when setting is "Other"`)
	}

	switch {
	case in.Duration == "":
		v.add("duration", "is required")
	case !in.Duration.Valid():
		v.add("duration", oneOf(DurationOptions))
	case in.Duration == DurationCustom:
		m := in.DurationCustomMinutes
		if m == nil {
			v.add("durationCustomMinutes", `is required when duration is "Custom"`)
		} else if *m < MinCustomMinutes || *m > MaxCustomMinutes {
			v.add("durationCustomMinutes", fmt.Sprintf("must be between %d and %d", MinCustomMinutes, MaxCustomMinutes))
		}
	}

	if len(in.Constraints) > MaxConstraints {
		v.add("constraints", fmt.Sprintf("must have at most %d items", MaxConstraints))
	}
	seen := make(map[string]bool, len(in.Constraints))
	for i, c := range in.Constraints {
		key := strings.ToLower(strings.TrimSpace(c))
		path := fmt.Sprintf("constraints.%d", i)
		switch {
		case key == "":
			v.add(path, "must not be blank")
		case seen[key]:
			v.add(path, "duplicates an earlier constraint")
		}
		seen[key] = true
	}

	return v.err()
}

type violations []FieldError

func (v *violations) add(path, msg string) {
	*v = append(*v, FieldError{Path: path, Message: msg})
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	sort.SliceStable(v, func(i, j int) bool { return v[i].Path < v[j].Path })
	return &InvalidError{Violations: v}
}

func oneOf[T ~string](opts []T) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", string(o))
	}
	return "must be one of " + strings.Join(quoted, ", ")
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
