package intake

// derivation is the fixed task table. Every task has exactly one row.
type derivation struct {
	role        Role
	designType  DesignType
	timeHorizon TimeHorizon
}

var derivations = map[Task]derivation{
	TaskTeachClass:      {RoleTeacher, DesignSingleLesson, HorizonSingleSession},
	TaskLeadWorkshop:    {RolePastorLeader, DesignSingleLesson, HorizonSingleSession},
	TaskBuildCurriculum: {RolePastorLeader, DesignQuarterCurriculum, HorizonQuarter},
}

// DeriveRole returns the default role for task, or "" for an unknown task.
func DeriveRole(task Task) Role { return derivations[task].role }

// DeriveDesignType returns the default design type for task.
func DeriveDesignType(task Task) DesignType { return derivations[task].designType }

// DeriveTimeHorizon returns the default time horizon for task.
func DeriveTimeHorizon(task Task) TimeHorizon { return derivations[task].timeHorizon }

// PlanTypeFor maps a design type onto the lesson plan cadence.
func PlanTypeFor(d DesignType) PlanType {
	switch d {
	case DesignMultiWeekSeries:
		return PlanMultiSession
	case DesignQuarterCurriculum:
		return PlanQuarter
	default:
		return PlanSingleSession
	}
}
