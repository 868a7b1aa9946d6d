package blueprint

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

const (
	// MinGrowthIndicators is the minimum length of overview.outcomes.howToMeasureGrowth.
	MinGrowthIndicators = 3
	// MinResources is the minimum length of recommendedResources.
	MinResources = 3
	// MaxSessionMinutes bounds session and segment durations.
	MaxSessionMinutes = 240
	// MinSessionMinutes is the shortest session a document may declare.
	MinSessionMinutes = 10
)

// ModuleKeys lists every key allowed under modules.
var ModuleKeys = []string{
	intake.RoleTeacher.Key(),
	intake.RolePastorLeader.Key(),
	intake.RoleYouthLeader.Key(),
}

// Definition returns the JSON schema of a blueprint document. The enum
// values come from the same option lists the intake and prompt use.
func Definition() map[string]any {
	return closed(map[string]any{
		"header":   headerSchema(),
		"overview": overviewSchema(),
		"modules": map[string]any{
			"type": "object",
			"properties": map[string]any{
				intake.RoleTeacher.Key():      teacherSchema(),
				intake.RolePastorLeader.Key(): pastorLeaderSchema(),
				intake.RoleYouthLeader.Key():  youthLeaderSchema(),
			},
			"additionalProperties": false,
		},
		"recommendedResources": list(resourceSchema(), MinResources),
	}, "header", "overview", "modules", "recommendedResources")
}

func headerSchema() map[string]any {
	return closed(map[string]any{
		"title":    text(),
		"subtitle": map[string]any{"type": "string"},
		"role":     enum(intake.Strings(intake.RoleOptions)),
		"preparedFor": closed(map[string]any{
			"leaderName": map[string]any{"type": "string"},
			"groupName":  text(),
		}, "leaderName", "groupName"),
		"context": closed(map[string]any{
			"designType":      enum(intake.Strings(intake.DesignTypeOptions)),
			"timeHorizon":     enum(intake.Strings(intake.TimeHorizonOptions)),
			"ageGroup":        text(),
			"setting":         text(),
			"durationMinutes": integer(MinSessionMinutes, MaxSessionMinutes),
			"topicOrText":     map[string]any{"type": "string"},
			"constraints": map[string]any{
				"type":     "array",
				"items":    text(),
				"maxItems": intake.MaxConstraints,
			},
		}, "designType", "timeHorizon", "ageGroup", "setting", "durationMinutes", "topicOrText"),
	}, "title", "role", "preparedFor", "context")
}

func overviewSchema() map[string]any {
	return closed(map[string]any{
		"outcomes": closed(map[string]any{
			"formationGoal":      text(),
			"howToMeasureGrowth": textList(MinGrowthIndicators),
		}, "formationGoal", "howToMeasureGrowth"),
		"headHeartHandsObjectives": headHeartHandsSchema(),
		"bloomsObjectives": list(closed(map[string]any{
			"level":     enum(Strings(BloomLevelOptions)),
			"objective": text(),
			"evidence":  text(),
		}, "level", "objective", "evidence"), 0),
	}, "outcomes", "headHeartHandsObjectives")
}

func headHeartHandsSchema() map[string]any {
	return closed(map[string]any{
		"head":  text(),
		"heart": text(),
		"hands": text(),
	}, "head", "heart", "hands")
}

// sessionSchema is shared by all three modules.
func sessionSchema() map[string]any {
	return closed(map[string]any{
		"title":           text(),
		"durationMinutes": integer(MinSessionMinutes, MaxSessionMinutes),
		"objectives":      headHeartHandsSchema(),
		"engagement": closed(map[string]any{
			"inform":  textList(1),
			"inspire": textList(1),
			"involve": textList(1),
		}, "inform", "inspire", "involve"),
		"flow": list(closed(map[string]any{
			"segment":  text(),
			"minutes":  integer(1, MaxSessionMinutes),
			"purpose":  text(),
			"movement": enum(Strings(MovementOptions)),
		}, "segment", "minutes", "purpose", "movement"), 1),
	}, "title", "durationMinutes", "objectives", "engagement", "flow")
}

func teacherSchema() map[string]any {
	return closed(map[string]any{
		"prepChecklist": textList(1),
		"lessonPlan": closed(map[string]any{
			"planType": enum(intake.Strings(intake.PlanTypeOptions)),
			"sessions": list(sessionSchema(), 1),
		}, "planType", "sessions"),
	}, "prepChecklist", "lessonPlan")
}

func pastorLeaderSchema() map[string]any {
	return closed(map[string]any{
		"planOverview": closed(map[string]any{
			"planType":       enum(intake.Strings(intake.PlanTypeOptions)),
			"cadence":        text(),
			"alignmentNotes": textList(1),
		}, "planType", "cadence", "alignmentNotes"),
		"sessions": list(closed(map[string]any{
			"title":            text(),
			"objective":        text(),
			"leaderPrep":       textList(1),
			"sessionPlan":      sessionSchema(),
			"takeHomePractice": textList(1),
		}, "title", "objective", "leaderPrep", "sessionPlan", "takeHomePractice"), 1),
		"leaderTrainingPlan": closed(map[string]any{
			"trainingSessions": list(closed(map[string]any{
				"title":           text(),
				"durationMinutes": integer(1, MaxSessionMinutes),
				"agenda":          textList(1),
			}, "title", "durationMinutes", "agenda"), 1),
			"coachingNotes": textList(1),
		}, "trainingSessions", "coachingNotes"),
		"measurementFramework": closed(map[string]any{
			"inputsToTrack":     textList(1),
			"outcomesToMeasure": textList(1),
			"simpleRubric":      textList(1),
		}, "inputsToTrack", "outcomesToMeasure", "simpleRubric"),
	}, "planOverview", "sessions", "leaderTrainingPlan", "measurementFramework")
}

func youthLeaderSchema() map[string]any {
	return closed(map[string]any{
		"activityIntegratedPlan": closed(map[string]any{
			"sessions": list(sessionSchema(), 1),
		}, "sessions"),
		"activityBank": list(closed(map[string]any{
			"name":             text(),
			"objectiveTie":     text(),
			"setup":            text(),
			"timeMinutes":      integer(1, MaxSessionMinutes),
			"debriefQuestions": textList(1),
		}, "name", "objectiveTie", "setup", "timeMinutes", "debriefQuestions"), 1),
		"leaderNotes": closed(map[string]any{
			"transitions":     textList(1),
			"engagementMoves": textList(1),
			"guardrails":      textList(1),
		}, "transitions", "engagementMoves", "guardrails"),
	}, "activityIntegratedPlan", "activityBank", "leaderNotes")
}

func resourceSchema() map[string]any {
	return closed(map[string]any{
		"title":        text(),
		"author":       text(),
		"publisher":    text(),
		"amazonUrl":    text(),
		"publisherUrl": text(),
		"whyThisHelps": text(),
	}, "title", "author", "publisher", "amazonUrl", "publisherUrl", "whyThisHelps")
}

func closed(props map[string]any, required ...string) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             req,
		"additionalProperties": false,
	}
}

func text() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func textList(min int) map[string]any {
	return list(text(), min)
}

func list(items map[string]any, min int) map[string]any {
	s := map[string]any{"type": "array", "items": items}
	if min > 0 {
		s["minItems"] = min
	}
	return s
}

func integer(min, max int) map[string]any {
	return map[string]any{"type": "integer", "minimum": min, "maximum": max}
}

func enum(values []string) map[string]any {
	e := make([]any, len(values))
	for i, v := range values {
		e[i] = v
	}
	return map[string]any{"type": "string", "enum": e}
}

// Strings converts an option list to plain strings.
func Strings[T ~string](opts []T) []string {
	return intake.Strings(opts)
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles Definition once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = compile(Definition())
	})
	return compiled, compileErr
}

func compile(def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, so round-trip the Go literal.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://blueprint.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return s, nil
}
