package intake

import (
	"errors"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func validIntake() Intake {
	return Intake{
		Task:           TaskTeachClass,
		AgeGroup:       AgeAdults,
		GroupName:      "Tuesday Night Group",
		LeaderName:     ptr("Dana"),
		DesiredOutcome: "Pray daily with confidence",
		TopicOrText:    ptr("Luke 11:1-13"),
		Setting:        SettingSmallGroup,
		Duration:       Duration45to60,
	}
}

func invalidPaths(t *testing.T, err error) map[string][]string {
	t.Helper()
	var inv *InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidError, got %T (%v)", err, err)
	}
	return inv.Fields()
}

func TestValidate_Valid(t *testing.T) {
	if err := validIntake().Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	err := Intake{}.Validate()
	fields := invalidPaths(t, err)
	for _, path := range []string{"task", "ageGroup", "groupName", "desiredOutcome", "setting", "duration"} {
		if _, ok := fields[path]; !ok {
			t.Errorf("expected violation at %q, got %v", path, fields)
		}
	}
}

func TestValidate_EnumMembership(t *testing.T) {
	in := validIntake()
	in.Role = "Deacon"
	in.DesignType = "Sermon"
	in.TimeHorizon = "Forever"
	in.AgeGroup = "Toddlers"
	fields := invalidPaths(t, in.Validate())
	for _, path := range []string{"role", "designType", "timeHorizon", "ageGroup"} {
		if len(fields[path]) != 1 || !strings.HasPrefix(fields[path][0], "must be one of") {
			t.Errorf("%s: expected enum violation, got %v", path, fields[path])
		}
	}
}

func TestValidate_DesiredOutcomeMinLength(t *testing.T) {
	in := validIntake()
	in.DesiredOutcome = "  grow "
	fields := invalidPaths(t, in.Validate())
	if _, ok := fields["desiredOutcome"]; !ok {
		t.Fatalf("expected desiredOutcome violation, got %v", fields)
	}

	in.DesiredOutcome = "grows"
	if err := in.Validate(); err != nil {
		t.Fatalf("five characters should pass, got %v", err)
	}
}

func TestValidate_SettingOtherRequiresDetail(t *testing.T) {
	in := validIntake()
	in.Setting = SettingOther
	fields := invalidPaths(t, in.Validate())
	if _, ok := fields["settingDetail"]; !ok {
		t.Fatalf("expected settingDetail violation, got %v", fields)
	}

	in.SettingDetail = ptr("   ")
	invalidPaths(t, in.Validate())

	in.SettingDetail = ptr("Retreat center")
	if err := in.Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidate_CustomDurationRequiresMinutes(t *testing.T) {
	in := validIntake()
	in.Duration = DurationCustom

	fields := invalidPaths(t, in.Validate())
	if _, ok := fields["durationCustomMinutes"]; !ok {
		t.Fatalf("expected durationCustomMinutes violation, got %v", fields)
	}

	for _, m := range []int{-5, 0, 9, 241, 1000} {
		in.DurationCustomMinutes = ptr(m)
		if err := in.Validate(); err == nil {
			t.Errorf("minutes %d: expected violation", m)
		}
	}
	for _, m := range []int{10, 45, 240} {
		in.DurationCustomMinutes = ptr(m)
		if err := in.Validate(); err != nil {
			t.Errorf("minutes %d: expected nil, got %v", m, err)
		}
	}
}

func TestValidate_CustomMinutesIgnoredForFixedDurations(t *testing.T) {
	for _, d := range []Duration{Duration45to60, Duration75to90} {
		for _, m := range []*int{nil, ptr(-1), ptr(0), ptr(999)} {
			in := validIntake()
			in.Duration = d
			in.DurationCustomMinutes = m
			if err := in.Validate(); err != nil {
				t.Errorf("duration %q: expected nil, got %v", d, err)
			}
		}
	}
}

func TestValidate_Constraints(t *testing.T) {
	in := validIntake()
	in.Constraints = []string{"Limited prep time", "Short session window", "Mixed Bible knowledge"}
	fields := invalidPaths(t, in.Validate())
	if _, ok := fields["constraints"]; !ok {
		t.Errorf("expected too-many violation, got %v", fields)
	}

	in.Constraints = []string{"Limited prep time", "limited prep time "}
	fields = invalidPaths(t, in.Validate())
	if _, ok := fields["constraints.1"]; !ok {
		t.Errorf("expected duplicate violation, got %v", fields)
	}

	in.Constraints = []string{" "}
	fields = invalidPaths(t, in.Validate())
	if _, ok := fields["constraints.0"]; !ok {
		t.Errorf("expected blank violation, got %v", fields)
	}
}

func TestValidate_BlankLeaderName(t *testing.T) {
	in := validIntake()
	in.LeaderName = ptr("")
	fields := invalidPaths(t, in.Validate())
	if _, ok := fields["leaderName"]; !ok {
		t.Fatalf("expected leaderName violation, got %v", fields)
	}
	in.LeaderName = nil
	if err := in.Validate(); err != nil {
		t.Fatalf("absent leaderName should pass, got %v", err)
	}
}

func TestParse_TypeErrorBecomesViolation(t *testing.T) {
	body := `{"task":"Teaching A Class","duration":"Custom","durationCustomMinutes":45.5}`
	_, err := Parse([]byte(body))
	fields := invalidPaths(t, err)
	msgs, ok := fields["durationCustomMinutes"]
	if !ok {
		t.Fatalf("expected violation at durationCustomMinutes, got %v", fields)
	}
	if !strings.Contains(msgs[0], "integer") {
		t.Errorf("expected integer message, got %q", msgs[0])
	}
}

func TestParse_MalformedAndEmpty(t *testing.T) {
	for _, body := range []string{"", "   ", "{", "[1,2]", `"text"`} {
		if _, err := Parse([]byte(body)); err == nil {
			t.Errorf("body %q: expected error", body)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	body := `{
		"task": "Building A Curriculum",
		"ageGroup": "Students",
		"groupName": "HS Ministry",
		"desiredOutcome": "Own their faith",
		"setting": "Youth Gathering",
		"duration": "75–90 min",
		"constraints": ["Short session window"]
	}`
	in, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.Duration != Duration75to90 {
		t.Errorf("duration = %q, want %q", in.Duration, Duration75to90)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDerivation_TotalOverTasks(t *testing.T) {
	for _, task := range TaskOptions {
		if !DeriveRole(task).Valid() {
			t.Errorf("%q: derived role %q is not valid", task, DeriveRole(task))
		}
		if !DeriveDesignType(task).Valid() {
			t.Errorf("%q: derived design type invalid", task)
		}
		if !DeriveTimeHorizon(task).Valid() {
			t.Errorf("%q: derived time horizon invalid", task)
		}
	}
}

func TestDerivation_Table(t *testing.T) {
	tests := []struct {
		task    Task
		role    Role
		design  DesignType
		horizon TimeHorizon
	}{
		{TaskTeachClass, RoleTeacher, DesignSingleLesson, HorizonSingleSession},
		{TaskLeadWorkshop, RolePastorLeader, DesignSingleLesson, HorizonSingleSession},
		{TaskBuildCurriculum, RolePastorLeader, DesignQuarterCurriculum, HorizonQuarter},
	}
	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			in := validIntake()
			in.Task = tt.task
			for i := 0; i < 3; i++ {
				n, err := Normalize(in)
				if err != nil {
					t.Fatalf("Normalize: %v", err)
				}
				if n.Role != tt.role || n.DesignType != tt.design || n.TimeHorizon != tt.horizon {
					t.Fatalf("got (%q, %q, %q), want (%q, %q, %q)",
						n.Role, n.DesignType, n.TimeHorizon, tt.role, tt.design, tt.horizon)
				}
			}
		})
	}
}

func TestNormalize_ExplicitValuesWin(t *testing.T) {
	in := validIntake()
	in.Role = RoleYouthLeader
	in.DesignType = DesignMultiWeekSeries
	in.TimeHorizon = HorizonFourToSix
	n, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if n.Role != RoleYouthLeader || n.DesignType != DesignMultiWeekSeries || n.TimeHorizon != HorizonFourToSix {
		t.Errorf("explicit values overridden: %+v", n)
	}
	if n.PlanType != PlanMultiSession {
		t.Errorf("planType = %q, want %q", n.PlanType, PlanMultiSession)
	}
}

func TestNormalize_DurationMinutes(t *testing.T) {
	tests := []struct {
		duration Duration
		custom   *int
		want     int
	}{
		{Duration45to60, nil, 60},
		{Duration75to90, ptr(30), 90},
		{DurationCustom, ptr(35), 35},
	}
	for _, tt := range tests {
		in := validIntake()
		in.Duration = tt.duration
		in.DurationCustomMinutes = tt.custom
		n, err := Normalize(in)
		if err != nil {
			t.Fatalf("%q: %v", tt.duration, err)
		}
		if n.DurationMinutes != tt.want {
			t.Errorf("%q: durationMinutes = %d, want %d", tt.duration, n.DurationMinutes, tt.want)
		}
	}
}

func TestNormalize_TrimsAndDefaults(t *testing.T) {
	in := validIntake()
	in.GroupName = "  Youth  "
	in.TopicOrText = nil
	in.LeaderName = nil
	in.Setting = SettingOther
	in.SettingDetail = ptr(" Camp ")
	n, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if n.GroupName != "Youth" {
		t.Errorf("groupName = %q", n.GroupName)
	}
	if n.TopicOrText != "" || n.LeaderName != "" {
		t.Errorf("expected empty defaults, got topic=%q leader=%q", n.TopicOrText, n.LeaderName)
	}
	if got := n.SettingLabel(); got != "Other (Camp)" {
		t.Errorf("SettingLabel = %q", got)
	}
	if n.Constraints == nil {
		t.Error("constraints should be an empty slice, not nil")
	}
}

func TestNormalize_RejectsInvalid(t *testing.T) {
	in := validIntake()
	in.Duration = DurationCustom
	if _, err := Normalize(in); err == nil {
		t.Fatal("expected error")
	}
}

func TestRoleKey(t *testing.T) {
	want := map[Role]string{
		RoleTeacher:      "teacher",
		RolePastorLeader: "pastorLeader",
		RoleYouthLeader:  "youthLeader",
	}
	for _, r := range RoleOptions {
		if r.Key() != want[r] {
			t.Errorf("%q.Key() = %q, want %q", r, r.Key(), want[r])
		}
	}
	if Role("x").Key() != "" {
		t.Error("unknown role should have empty key")
	}
}
