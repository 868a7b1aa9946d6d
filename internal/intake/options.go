package intake

// Task is the kind of work the requester is planning.
type Task string

const (
	TaskTeachClass      Task = "Teaching A Class"
	TaskLeadWorkshop    Task = "Leading A Workshop"
	TaskBuildCurriculum Task = "Building A Curriculum"
)

// Role is the track the blueprint is written for. It selects the module.
type Role string

const (
	RoleTeacher      Role = "Teacher"
	RolePastorLeader Role = "Pastor/Leader"
	RoleYouthLeader  Role = "Youth Leader"
)

// DesignType is the scope of the plan.
type DesignType string

const (
	DesignSingleLesson      DesignType = "Single Lesson"
	DesignMultiWeekSeries   DesignType = "Multi-Week Series"
	DesignQuarterCurriculum DesignType = "Quarter Curriculum"
)

// TimeHorizon is how long the plan runs.
type TimeHorizon string

const (
	HorizonSingleSession TimeHorizon = "Single Session"
	HorizonFourToSix     TimeHorizon = "4–6 Weeks"
	HorizonQuarter       TimeHorizon = "Quarter/Semester"
)

// AgeGroup is the audience age bracket.
type AgeGroup string

const (
	AgeChildren          AgeGroup = "Children"
	AgeStudents          AgeGroup = "Students"
	AgeAdults            AgeGroup = "Adults"
	AgeMultiGenerational AgeGroup = "Multi-Generational"
)

// Setting is the delivery setting. SettingOther requires a detail string.
type Setting string

const (
	SettingSundaySchool   Setting = "Sunday School"
	SettingSmallGroup     Setting = "Small Group"
	SettingYouthGathering Setting = "Youth Gathering"
	SettingLeadership     Setting = "Leadership Training"
	SettingMidweekBible   Setting = "Midweek Bible Study"
	SettingOther          Setting = "Other"
)

// Duration is the session length bucket. DurationCustom requires minutes.
type Duration string

const (
	Duration45to60 Duration = "45–60 min"
	Duration75to90 Duration = "75–90 min"
	DurationCustom Duration = "Custom"
)

// PlanType is the lesson plan cadence written into the document.
type PlanType string

const (
	PlanSingleSession PlanType = "Single Session"
	PlanMultiSession  PlanType = "Multi-Session"
	PlanQuarter       PlanType = "Quarter/Semester"
)

// Option lists in display order. The prompt and the JSON schema are built
// from these so the three never drift apart.
var (
	TaskOptions        = []Task{TaskTeachClass, TaskLeadWorkshop, TaskBuildCurriculum}
	RoleOptions        = []Role{RoleTeacher, RolePastorLeader, RoleYouthLeader}
	DesignTypeOptions  = []DesignType{DesignSingleLesson, DesignMultiWeekSeries, DesignQuarterCurriculum}
	TimeHorizonOptions = []TimeHorizon{HorizonSingleSession, HorizonFourToSix, HorizonQuarter}
	AgeGroupOptions    = []AgeGroup{AgeChildren, AgeStudents, AgeAdults, AgeMultiGenerational}
	SettingOptions     = []Setting{
		SettingSundaySchool, SettingSmallGroup, SettingYouthGathering,
		SettingLeadership, SettingMidweekBible, SettingOther,
	}
	DurationOptions = []Duration{Duration45to60, Duration75to90, DurationCustom}
	PlanTypeOptions = []PlanType{PlanSingleSession, PlanMultiSession, PlanQuarter}
)

// ConstraintOptions are the suggested constraint tags offered by clients.
// The API accepts any short tag; these are not enforced.
var ConstraintOptions = []string{
	"Limited prep time",
	"Mixed Bible knowledge",
	"Low engagement/participation",
	"No projector / limited tech",
	"Short session window",
	"High energy / easily distracted group",
	"New believers / little Bible literacy",
	"Volunteer teacher (not trained)",
}

const (
	// MaxConstraints is the most constraint tags one intake may carry.
	MaxConstraints = 2

	// MinDesiredOutcome is the minimum trimmed length of desiredOutcome.
	MinDesiredOutcome = 5

	// MinCustomMinutes and MaxCustomMinutes bound durationCustomMinutes.
	MinCustomMinutes = 10
	MaxCustomMinutes = 240
)

func contains[T comparable](opts []T, v T) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// Strings converts an option list to plain strings.
func Strings[T ~string](opts []T) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = string(o)
	}
	return out
}

// Key returns the modules key used for this role in a blueprint document.
func (r Role) Key() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RolePastorLeader:
		return "pastorLeader"
	case RoleYouthLeader:
		return "youthLeader"
	default:
		return ""
	}
}

// Valid reports whether r is one of RoleOptions.
func (r Role) Valid() bool { return contains(RoleOptions, r) }

func (t Task) Valid() bool        { return contains(TaskOptions, t) }
func (d DesignType) Valid() bool  { return contains(DesignTypeOptions, d) }
func (h TimeHorizon) Valid() bool { return contains(TimeHorizonOptions, h) }
func (a AgeGroup) Valid() bool    { return contains(AgeGroupOptions, a) }
func (s Setting) Valid() bool     { return contains(SettingOptions, s) }
func (d Duration) Valid() bool    { return contains(DurationOptions, d) }
