// Package blueprint holds the generated planning document: its typed form,
// the JSON schema and rule chain that decide whether model output is one,
// and the tolerant parsing applied to raw model text.
package blueprint

import (
	"encoding/json"
	"fmt"

	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

// SchemaVersion is written next to every stored document. Bump the major
// version when a change would reject documents that passed before.
const SchemaVersion = "v1.0.0"

// Movement is the pedagogical stage a flow segment belongs to.
type Movement string

const (
	MovementInform  Movement = "Inform"
	MovementInspire Movement = "Inspire"
	MovementInvolve Movement = "Involve"
)

// MovementOptions in teaching order.
var MovementOptions = []Movement{MovementInform, MovementInspire, MovementInvolve}

// BloomLevel is one of the six cognitive levels.
type BloomLevel string

const (
	BloomRemember   BloomLevel = "Remember"
	BloomUnderstand BloomLevel = "Understand"
	BloomApply      BloomLevel = "Apply"
	BloomAnalyze    BloomLevel = "Analyze"
	BloomEvaluate   BloomLevel = "Evaluate"
	BloomCreate     BloomLevel = "Create"
)

// BloomLevelOptions in progression order.
var BloomLevelOptions = []BloomLevel{
	BloomRemember, BloomUnderstand, BloomApply, BloomAnalyze, BloomEvaluate, BloomCreate,
}

// Blueprint is a validated planning document.
type Blueprint struct {
	Header               Header     `json:"header"`
	Overview             Overview   `json:"overview"`
	Modules              Modules    `json:"modules"`
	RecommendedResources []Resource `json:"recommendedResources"`
}

type Header struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Role        intake.Role `json:"role"`
	PreparedFor PreparedFor `json:"preparedFor"`
	Context     Context     `json:"context"`
}

type PreparedFor struct {
	LeaderName string `json:"leaderName"`
	GroupName  string `json:"groupName"`
}

type Context struct {
	DesignType      intake.DesignType  `json:"designType"`
	TimeHorizon     intake.TimeHorizon `json:"timeHorizon"`
	AgeGroup        string             `json:"ageGroup"`
	Setting         string             `json:"setting"`
	DurationMinutes int                `json:"durationMinutes"`
	TopicOrText     string             `json:"topicOrText"`
	Constraints     []string           `json:"constraints,omitempty"`
}

type Overview struct {
	Outcomes                 Outcomes         `json:"outcomes"`
	HeadHeartHandsObjectives HeadHeartHands   `json:"headHeartHandsObjectives"`
	BloomsObjectives         []BloomObjective `json:"bloomsObjectives,omitempty"`
}

type Outcomes struct {
	FormationGoal      string   `json:"formationGoal"`
	HowToMeasureGrowth []string `json:"howToMeasureGrowth"`
}

// HeadHeartHands is the three-part objective set: understand, value, practice.
type HeadHeartHands struct {
	Head  string `json:"head"`
	Heart string `json:"heart"`
	Hands string `json:"hands"`
}

type BloomObjective struct {
	Level     BloomLevel `json:"level"`
	Objective string     `json:"objective"`
	Evidence  string     `json:"evidence"`
}

type Resource struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Publisher    string `json:"publisher"`
	AmazonURL    string `json:"amazonUrl"`
	PublisherURL string `json:"publisherUrl"`
	WhyThisHelps string `json:"whyThisHelps"`
}

// Session is one timed teaching block. The flow minutes always sum to
// DurationMinutes in a validated document.
type Session struct {
	Title           string         `json:"title"`
	DurationMinutes int            `json:"durationMinutes"`
	Objectives      HeadHeartHands `json:"objectives"`
	Engagement      Engagement     `json:"engagement"`
	Flow            []FlowItem     `json:"flow"`
}

type Engagement struct {
	Inform  []string `json:"inform"`
	Inspire []string `json:"inspire"`
	Involve []string `json:"involve"`
}

type FlowItem struct {
	Segment  string   `json:"segment"`
	Minutes  int      `json:"minutes"`
	Purpose  string   `json:"purpose"`
	Movement Movement `json:"movement"`
}

// FlowMinutes sums the flow segment minutes.
func (s Session) FlowMinutes() int {
	total := 0
	for _, f := range s.Flow {
		total += f.Minutes
	}
	return total
}

// Module is the role-specific part of a blueprint. Exactly one
// implementation exists per role.
type Module interface {
	Role() intake.Role
	// Sessions returns every Session the module schedules, in order.
	Sessions() []Session
}

type TeacherModule struct {
	PrepChecklist []string   `json:"prepChecklist"`
	LessonPlan    LessonPlan `json:"lessonPlan"`
}

type LessonPlan struct {
	PlanType intake.PlanType `json:"planType"`
	Sessions []Session       `json:"sessions"`
}

func (m *TeacherModule) Role() intake.Role   { return intake.RoleTeacher }
func (m *TeacherModule) Sessions() []Session { return m.LessonPlan.Sessions }

type PastorLeaderModule struct {
	PlanOverview         PlanOverview         `json:"planOverview"`
	LeaderSessions       []LeaderSession      `json:"sessions"`
	LeaderTrainingPlan   LeaderTrainingPlan   `json:"leaderTrainingPlan"`
	MeasurementFramework MeasurementFramework `json:"measurementFramework"`
}

type PlanOverview struct {
	PlanType       intake.PlanType `json:"planType"`
	Cadence        string          `json:"cadence"`
	AlignmentNotes []string        `json:"alignmentNotes"`
}

type LeaderSession struct {
	Title            string   `json:"title"`
	Objective        string   `json:"objective"`
	LeaderPrep       []string `json:"leaderPrep"`
	SessionPlan      Session  `json:"sessionPlan"`
	TakeHomePractice []string `json:"takeHomePractice"`
}

type LeaderTrainingPlan struct {
	TrainingSessions []TrainingSession `json:"trainingSessions"`
	CoachingNotes    []string          `json:"coachingNotes"`
}

type TrainingSession struct {
	Title           string   `json:"title"`
	DurationMinutes int      `json:"durationMinutes"`
	Agenda          []string `json:"agenda"`
}

type MeasurementFramework struct {
	InputsToTrack     []string `json:"inputsToTrack"`
	OutcomesToMeasure []string `json:"outcomesToMeasure"`
	SimpleRubric      []string `json:"simpleRubric"`
}

func (m *PastorLeaderModule) Role() intake.Role { return intake.RolePastorLeader }

func (m *PastorLeaderModule) Sessions() []Session {
	out := make([]Session, len(m.LeaderSessions))
	for i, s := range m.LeaderSessions {
		out[i] = s.SessionPlan
	}
	return out
}

type YouthLeaderModule struct {
	ActivityIntegratedPlan ActivityPlan `json:"activityIntegratedPlan"`
	ActivityBank           []Activity   `json:"activityBank"`
	LeaderNotes            LeaderNotes  `json:"leaderNotes"`
}

type ActivityPlan struct {
	Sessions []Session `json:"sessions"`
}

type Activity struct {
	Name             string   `json:"name"`
	ObjectiveTie     string   `json:"objectiveTie"`
	Setup            string   `json:"setup"`
	TimeMinutes      int      `json:"timeMinutes"`
	DebriefQuestions []string `json:"debriefQuestions"`
}

type LeaderNotes struct {
	Transitions     []string `json:"transitions"`
	EngagementMoves []string `json:"engagementMoves"`
	Guardrails      []string `json:"guardrails"`
}

func (m *YouthLeaderModule) Role() intake.Role   { return intake.RoleYouthLeader }
func (m *YouthLeaderModule) Sessions() []Session { return m.ActivityIntegratedPlan.Sessions }

// Modules wraps the single populated module. On the wire it is an object
// with exactly one key, the module key of the module's role.
type Modules struct {
	Module Module
}

func (m Modules) MarshalJSON() ([]byte, error) {
	if m.Module == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Module{m.Module.Role().Key(): m.Module})
}

func (m *Modules) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("modules: want exactly one module, got %d", len(raw))
	}
	for key, body := range raw {
		mod, err := newModule(key)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, mod); err != nil {
			return fmt.Errorf("modules.%s: %w", key, err)
		}
		m.Module = mod
	}
	return nil
}

func newModule(key string) (Module, error) {
	switch key {
	case intake.RoleTeacher.Key():
		return &TeacherModule{}, nil
	case intake.RolePastorLeader.Key():
		return &PastorLeaderModule{}, nil
	case intake.RoleYouthLeader.Key():
		return &YouthLeaderModule{}, nil
	default:
		return nil, fmt.Errorf("modules: unknown module %q", key)
	}
}

// Sessions returns the sessions of the populated module.
func (b *Blueprint) Sessions() []Session {
	if b.Modules.Module == nil {
		return nil
	}
	return b.Modules.Module.Sessions()
}
