package intake

import "strings"

// Normalized is a validated Intake with every derived field resolved and
// every string trimmed. It is what the prompt is built from and what is
// stored next to the generated blueprint.
type Normalized struct {
	Task            Task        `json:"task"`
	Role            Role        `json:"role"`
	DesignType      DesignType  `json:"designType"`
	TimeHorizon     TimeHorizon `json:"timeHorizon"`
	AgeGroup        AgeGroup    `json:"ageGroup"`
	GroupName       string      `json:"groupName"`
	LeaderName      string      `json:"leaderName"`
	DesiredOutcome  string      `json:"desiredOutcome"`
	TopicOrText     string      `json:"topicOrText"`
	Setting         Setting     `json:"setting"`
	SettingDetail   string      `json:"settingDetail,omitempty"`
	Duration        Duration    `json:"duration"`
	DurationMinutes int         `json:"durationMinutes"`
	PlanType        PlanType    `json:"planType"`
	Constraints     []string    `json:"constraints"`
}

// Normalize validates in and fills in role, design type and time horizon
// from the task table when they were not supplied.
func Normalize(in Intake) (Normalized, error) {
	if err := in.Validate(); err != nil {
		return Normalized{}, err
	}

	n := Normalized{
		Task:           in.Task,
		Role:           in.Role,
		DesignType:     in.DesignType,
		TimeHorizon:    in.TimeHorizon,
		AgeGroup:       in.AgeGroup,
		GroupName:      strings.TrimSpace(in.GroupName),
		LeaderName:     trimmed(in.LeaderName),
		DesiredOutcome: strings.TrimSpace(in.DesiredOutcome),
		TopicOrText:    trimmed(in.TopicOrText),
		Setting:        in.Setting,
		Duration:       in.Duration,
		Constraints:    make([]string, 0, len(in.Constraints)),
	}
	if n.Role == "" {
		n.Role = DeriveRole(in.Task)
	}
	if n.DesignType == "" {
		n.DesignType = DeriveDesignType(in.Task)
	}
	if n.TimeHorizon == "" {
		n.TimeHorizon = DeriveTimeHorizon(in.Task)
	}
	if in.Setting == SettingOther {
		n.SettingDetail = trimmed(in.SettingDetail)
	}
	n.DurationMinutes = minutesFor(in.Duration, in.DurationCustomMinutes)
	n.PlanType = PlanTypeFor(n.DesignType)
	for _, c := range in.Constraints {
		n.Constraints = append(n.Constraints, strings.TrimSpace(c))
	}
	return n, nil
}

// SettingLabel is the setting as shown to the model, with the free-text
// detail appended for "Other".
func (n Normalized) SettingLabel() string {
	if n.Setting == SettingOther && n.SettingDetail != "" {
		return string(n.Setting) + " (" + n.SettingDetail + ")"
	}
	return string(n.Setting)
}

func minutesFor(d Duration, custom *int) int {
	switch d {
	case Duration45to60:
		return 60
	case Duration75to90:
		return 90
	default:
		if custom == nil {
			return 0
		}
		return *custom
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
