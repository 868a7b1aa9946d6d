// Package blueprinttest builds valid blueprint documents for tests in other
// packages. Every builder returns a fresh value that callers may mutate.
package blueprinttest

import (
	"encoding/json"
	"fmt"
)

// Session returns a session whose flow sums to minutes. minutes must be at
// least 4.
func Session(title string, minutes int) map[string]any {
	quarter := minutes / 4
	last := minutes - 3*quarter
	return map[string]any{
		"title":           title,
		"durationMinutes": minutes,
		"objectives": map[string]any{
			"head":  "Explain what the passage teaches about prayer.",
			"heart": "Value prayer as conversation with the Father.",
			"hands": "Pray for five minutes each morning this week.",
		},
		"engagement": map[string]any{
			"inform":  []any{"Read the passage aloud together."},
			"inspire": []any{"Share a story of answered prayer."},
			"involve": []any{"Write a one-line prayer to use daily."},
		},
		"flow": []any{
			segment("Welcome and question", quarter, "Inform"),
			segment("Read and explain", quarter, "Inform"),
			segment("Small group discussion", quarter, "Inspire"),
			segment("Practice and send", last, "Involve"),
		},
	}
}

func segment(name string, minutes int, movement string) map[string]any {
	return map[string]any{
		"segment":  name,
		"minutes":  minutes,
		"purpose":  "Move the group toward the session objective.",
		"movement": movement,
	}
}

func header(role string, minutes int) map[string]any {
	return map[string]any{
		"title": "Learning to Pray",
		"role":  role,
		"preparedFor": map[string]any{
			"leaderName": "Dana",
			"groupName":  "Tuesday Night Group",
		},
		"context": map[string]any{
			"designType":      "Single Lesson",
			"timeHorizon":     "Single Session",
			"ageGroup":        "Adults",
			"setting":         "Small Group",
			"durationMinutes": minutes,
			"topicOrText":     "Luke 11:1-13",
		},
	}
}

func overview() map[string]any {
	return map[string]any{
		"outcomes": map[string]any{
			"formationGoal": "Adults who pray daily with confidence.",
			"howToMeasureGrowth": []any{
				"Members report a daily prayer time.",
				"Members pray aloud in group.",
				"Members share prayer requests weekly.",
			},
		},
		"headHeartHandsObjectives": map[string]any{
			"head":  "Know the shape of the Lord's Prayer.",
			"heart": "Trust God hears them.",
			"hands": "Keep a daily prayer rhythm.",
		},
	}
}

func resources() []any {
	out := make([]any, 3)
	for i := range out {
		out[i] = map[string]any{
			"title":        fmt.Sprintf("Prayer Book %d", i+1),
			"author":       "A. Author",
			"publisher":    "Good Press",
			"amazonUrl":    "https://www.amazon.com/s?k=prayer",
			"publisherUrl": "https://www.google.com/search?q=prayer",
			"whyThisHelps": "Gives volunteers practical prayer prompts.",
		}
	}
	return out
}

func strs(items ...string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// Teacher returns a valid Teacher document with one session of minutes.
func Teacher(minutes int) map[string]any {
	return map[string]any{
		"header":   header("Teacher", minutes),
		"overview": overview(),
		"modules": map[string]any{
			"teacher": map[string]any{
				"prepChecklist": strs("Read Luke 11 twice.", "Print handouts."),
				"lessonPlan": map[string]any{
					"planType": "Single Session",
					"sessions": []any{Session("Teach Us to Pray", minutes)},
				},
			},
		},
		"recommendedResources": resources(),
	}
}

// PastorLeader returns a valid Pastor/Leader document.
func PastorLeader(minutes int) map[string]any {
	return map[string]any{
		"header":   header("Pastor/Leader", minutes),
		"overview": overview(),
		"modules": map[string]any{
			"pastorLeader": map[string]any{
				"planOverview": map[string]any{
					"planType":       "Single Session",
					"cadence":        "One workshop",
					"alignmentNotes": strs("Tie to the Sunday sermon series."),
				},
				"sessions": []any{map[string]any{
					"title":            "Leaders Who Pray",
					"objective":        "Equip leaders to model prayer.",
					"leaderPrep":       strs("Pray through the passage."),
					"sessionPlan":      Session("Workshop", minutes),
					"takeHomePractice": strs("Pray with one member this week."),
				}},
				"leaderTrainingPlan": map[string]any{
					"trainingSessions": []any{map[string]any{
						"title":           "Coaching prayer",
						"durationMinutes": 30,
						"agenda":          strs("Model", "Practice", "Debrief", "Commit"),
					}},
					"coachingNotes": strs("Check in weekly."),
				},
				"measurementFramework": map[string]any{
					"inputsToTrack":     strs("Attendance"),
					"outcomesToMeasure": strs("Daily prayer reported"),
					"simpleRubric":      strs("1-3 scale of prayer confidence"),
				},
			},
		},
		"recommendedResources": resources(),
	}
}

// YouthLeader returns a valid Youth Leader document.
func YouthLeader(minutes int) map[string]any {
	return map[string]any{
		"header":   header("Youth Leader", minutes),
		"overview": overview(),
		"modules": map[string]any{
			"youthLeader": map[string]any{
				"activityIntegratedPlan": map[string]any{
					"sessions": []any{Session("Prayer Night", minutes)},
				},
				"activityBank": []any{map[string]any{
					"name":             "Prayer stations",
					"objectiveTie":     "Hands: practice prayer",
					"setup":            "Four tables with prompts",
					"timeMinutes":      15,
					"debriefQuestions": strs("Which station helped most?"),
				}},
				"leaderNotes": map[string]any{
					"transitions":     strs("Use a countdown timer."),
					"engagementMoves": strs("Call on volunteers by name."),
					"guardrails":      strs("No forced praying aloud."),
				},
			},
		},
		"recommendedResources": resources(),
	}
}

// JSON encodes doc, panicking on failure.
func JSON(doc any) string {
	b, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Decoded round-trips doc through JSON so numbers become float64, the way
// candidates look after parsing model output.
func Decoded(doc any) any {
	var v any
	if err := json.Unmarshal([]byte(JSON(doc)), &v); err != nil {
		panic(err)
	}
	return v
}
