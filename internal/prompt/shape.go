package prompt

import (
	"fmt"
	"strings"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

func alts[T ~string](opts []T) string {
	return strings.Join(intake.Strings(opts), " | ")
}

const sessionShape = `{
  "title": "string",
  "durationMinutes": integer,
  "objectives": { "head": "string", "heart": "string", "hands": "string" },
  "engagement": {
    "inform": ["string", "..."],
    "inspire": ["string", "..."],
    "involve": ["string", "..."]
  },
  "flow": [
    { "segment": "string", "minutes": integer, "purpose": "string", "movement": "%s" }
  ]
}`

// CanonicalShape is the complete required document shape. The generation
// and repair prompts both embed it verbatim.
func CanonicalShape() string {
	session := fmt.Sprintf(sessionShape, alts(blueprint.MovementOptions))

	return fmt.Sprintf(`{
  "header": {
    "title": "string",
    "subtitle": "string (optional)",
    "role": "%s",
    "preparedFor": { "leaderName": "string", "groupName": "string" },
    "context": {
      "designType": "%s",
      "timeHorizon": "%s",
      "ageGroup": "string",
      "setting": "string",
      "durationMinutes": integer,
      "topicOrText": "string",
      "constraints": ["string"] (optional, at most %d)
    }
  },
  "overview": {
    "outcomes": {
      "formationGoal": "string",
      "howToMeasureGrowth": ["string", "..."] (at least %d)
    },
    "headHeartHandsObjectives": { "head": "string", "heart": "string", "hands": "string" },
    "bloomsObjectives": [
      { "level": "%s", "objective": "string", "evidence": "string" }
    ] (optional)
  },
  "modules": {
    "teacher": {
      "prepChecklist": ["string", "..."],
      "lessonPlan": {
        "planType": "%s",
        "sessions": [ SESSION, "..." ]
      }
    },
    "pastorLeader": {
      "planOverview": { "planType": "%s", "cadence": "string", "alignmentNotes": ["string", "..."] },
      "sessions": [
        {
          "title": "string",
          "objective": "string",
          "leaderPrep": ["string", "..."],
          "sessionPlan": SESSION,
          "takeHomePractice": ["string", "..."]
        }
      ],
      "leaderTrainingPlan": {
        "trainingSessions": [ { "title": "string", "durationMinutes": integer, "agenda": ["string", "..."] } ],
        "coachingNotes": ["string", "..."]
      },
      "measurementFramework": {
        "inputsToTrack": ["string", "..."],
        "outcomesToMeasure": ["string", "..."],
        "simpleRubric": ["string", "..."]
      }
    },
    "youthLeader": {
      "activityIntegratedPlan": { "sessions": [ SESSION, "..." ] },
      "activityBank": [
        { "name": "string", "objectiveTie": "string", "setup": "string", "timeMinutes": integer, "debriefQuestions": ["string", "..."] }
      ],
      "leaderNotes": {
        "transitions": ["string", "..."],
        "engagementMoves": ["string", "..."],
        "guardrails": ["string", "..."]
      }
    }
  },
  "recommendedResources": [
    { "title": "string", "author": "string", "publisher": "string", "amazonUrl": "string", "publisherUrl": "string", "whyThisHelps": "string" }
  ] (at least %d)
}

SESSION =
%s`,
		alts(intake.RoleOptions),
		alts(intake.DesignTypeOptions),
		alts(intake.TimeHorizonOptions),
		intake.MaxConstraints,
		blueprint.MinGrowthIndicators,
		alts(blueprint.BloomLevelOptions),
		alts(intake.PlanTypeOptions),
		alts(intake.PlanTypeOptions),
		blueprint.MinResources,
		session,
	)
}

// hardRules are the structural rules the validator enforces, phrased for
// the model. Both prompts carry them.
func hardRules() []string {
	return []string{
		"Output ONLY a single JSON object with exactly these root keys: header, overview, modules, recommendedResources.",
		`Do NOT wrap the document in another object (no { "blueprint": ... }, { "result": ... }, { "data": ... }).`,
		"Every object is closed: do not add keys that are not in the shape.",
		fmt.Sprintf("modules contains exactly ONE key: %s for %s; %s for %s; %s for %s.",
			intake.RoleTeacher.Key(), intake.RoleTeacher,
			intake.RolePastorLeader.Key(), intake.RolePastorLeader,
			intake.RoleYouthLeader.Key(), intake.RoleYouthLeader),
		"Omit the other module keys entirely. Never output an empty object or null for a module.",
		"Every array marked with \"...\" must have at least one item.",
		"Each flow item MUST include movement.",
		"Each session's flow minutes MUST sum exactly to that session's durationMinutes.",
		fmt.Sprintf("All minute values are whole numbers; a session lasts %d to %d minutes.",
			blueprint.MinSessionMinutes, blueprint.MaxSessionMinutes),
	}
}
