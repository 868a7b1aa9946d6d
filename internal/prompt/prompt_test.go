package prompt

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

var update = flag.Bool("update", false, "rewrite golden prompt files")

func normalized(t *testing.T, mutate func(*intake.Intake)) intake.Normalized {
	t.Helper()
	leader := "Dana"
	topic := "Luke 11:1-13"
	in := intake.Intake{
		Task:           intake.TaskTeachClass,
		AgeGroup:       intake.AgeAdults,
		GroupName:      "Tuesday Night Group",
		LeaderName:     &leader,
		DesiredOutcome: "Pray daily with confidence",
		TopicOrText:    &topic,
		Setting:        intake.SettingSmallGroup,
		Duration:       intake.Duration45to60,
		Constraints:    []string{"Limited prep time"},
	}
	if mutate != nil {
		mutate(&in)
	}
	n, err := intake.Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return n
}

// golden compares got with testdata/name, writing the file when it does
// not exist yet or -update is set.
func golden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	want, err := os.ReadFile(path)
	if *update || os.IsNotExist(err) {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}
	if string(want) != got {
		t.Errorf("%s changed; rerun with -update if intended\n--- got ---\n%s", name, got)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	n := normalized(t, nil)
	first := Compose(n)
	for i := 0; i < 10; i++ {
		if Compose(n) != first {
			t.Fatal("Compose is not deterministic")
		}
	}
	golden(t, "compose_teacher.golden", first)
}

func TestCompose_EmbedsInputsVerbatim(t *testing.T) {
	msg := Compose(normalized(t, nil))
	for _, want := range []string{
		"Role: Teacher",
		"Design type: Single Lesson",
		"Time horizon: Single Session",
		"Group name: Tuesday Night Group",
		"Leader name: Dana",
		"Desired outcome: Pray daily with confidence",
		"Topic / passage / series focus: Luke 11:1-13",
		"Setting: Small Group",
		"Session duration (minutes): 60",
		"Constraints: Limited prep time",
		`modules MUST contain only "teacher"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestCompose_Defaults(t *testing.T) {
	msg := Compose(normalized(t, func(in *intake.Intake) {
		in.LeaderName = nil
		in.TopicOrText = nil
		in.Constraints = nil
	}))
	for _, want := range []string{
		"Leader name: Not provided",
		"Topic / passage / series focus: Not provided",
		"Constraints: None provided",
		"leaderName MUST be an empty string",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestCompose_Method(t *testing.T) {
	msg := Compose(normalized(t, nil))
	for _, want := range []string{
		"Discipleship is formation, not information.",
		"Inform (Bloom: Remember + Understand)",
		"Inspire (Bloom: Apply + Analyze)",
		"Involve (Bloom: Evaluate + Create)",
		"head: What must they understand?",
		"flow minutes MUST sum exactly",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestCompose_PerRole(t *testing.T) {
	for _, role := range intake.RoleOptions {
		t.Run(string(role), func(t *testing.T) {
			msg := Compose(normalized(t, func(in *intake.Intake) { in.Role = role }))
			if !strings.Contains(msg, "header.role MUST be \""+string(role)+"\"") {
				t.Errorf("missing role rule for %q", role)
			}
			if !strings.Contains(msg, "modules MUST contain only \""+role.Key()+"\"") {
				t.Errorf("missing module rule for %q", role)
			}
		})
	}
}

func TestCompose_OtherSettingAndCustomDuration(t *testing.T) {
	msg := Compose(normalized(t, func(in *intake.Intake) {
		detail := "Retreat center"
		minutes := 35
		in.Setting = intake.SettingOther
		in.SettingDetail = &detail
		in.Duration = intake.DurationCustom
		in.DurationCustomMinutes = &minutes
	}))
	if !strings.Contains(msg, "Setting: Other (Retreat center)") {
		t.Error("missing setting detail")
	}
	if !strings.Contains(msg, "every session durationMinutes MUST be 35") {
		t.Error("missing custom duration rule")
	}
}

func TestCanonicalShape_ListsEveryEnum(t *testing.T) {
	shape := CanonicalShape()
	var values []string
	values = append(values, intake.Strings(intake.RoleOptions)...)
	values = append(values, intake.Strings(intake.DesignTypeOptions)...)
	values = append(values, intake.Strings(intake.TimeHorizonOptions)...)
	values = append(values, intake.Strings(intake.PlanTypeOptions)...)
	values = append(values, blueprint.Strings(blueprint.MovementOptions)...)
	values = append(values, blueprint.Strings(blueprint.BloomLevelOptions)...)
	for _, v := range values {
		if !strings.Contains(shape, v) {
			t.Errorf("shape missing enum value %q", v)
		}
	}
	for _, key := range blueprint.ModuleKeys {
		if !strings.Contains(shape, `"`+key+`"`) {
			t.Errorf("shape missing module %q", key)
		}
	}
}

func TestRepair_IncludesViolationsAndRaw(t *testing.T) {
	vs := blueprint.Violations{
		{Path: "modules.teacher", Message: `is required when header.role is "Teacher"`},
	}
	raw := `{"header":{"title":"x"}}`
	msg := Repair(vs, raw)

	if !strings.Contains(msg, CanonicalShape()) {
		t.Error("repair prompt must restate the full shape")
	}
	if !strings.Contains(msg, `"modules.teacher": [`) {
		t.Error("missing violation path")
	}
	if !strings.HasSuffix(msg, raw) {
		t.Error("raw output must close the prompt")
	}
	if !strings.Contains(msg, "Do NOT wrap the document") {
		t.Error("missing wrapper prohibition")
	}
	golden(t, "repair.golden", msg)
}

func TestRepair_ParseFailure(t *testing.T) {
	msg := Repair(nil, "not json")
	if !strings.Contains(msg, "not parseable as JSON") {
		t.Error("expected parse failure note")
	}
}

func TestRepair_Deterministic(t *testing.T) {
	vs := blueprint.Violations{{Path: "b", Message: "x"}, {Path: "a", Message: "y"}}
	first := Repair(vs, "raw")
	for i := 0; i < 10; i++ {
		if Repair(vs, "raw") != first {
			t.Fatal("Repair is not deterministic")
		}
	}
}
