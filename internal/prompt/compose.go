package prompt

import (
	"fmt"
	"strings"

	"github.com/discipleshipbydesign/blueprint/internal/intake"
)

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func trackGuidance(role intake.Role) string {
	switch role {
	case intake.RolePastorLeader:
		return `- Focus on alignment across preaching, teaching, and small groups around shared formation outcomes.
- Include leader training and a simple measurement framework.
- Prefer scalable structures and coaching notes for ministry teams.`
	case intake.RoleYouthLeader:
		return `- Integrate activities AND connect them explicitly to the head/heart/hands objectives.
- Keep segments short, interactive, and transition-friendly.
- Include debrief questions that turn activities into learning evidence.`
	default:
		return `- Focus on volunteer-friendly clarity: prep checklist + session flow + facilitation prompts.
- Provide discussion questions and application prompts that are concrete and Scripture-shaped.
- Keep it practical (assume limited prep time).`
	}
}

func countGuidance(role intake.Role) string {
	switch role {
	case intake.RolePastorLeader:
		return `- planOverview.alignmentNotes: at least 3
- each session.leaderPrep and takeHomePractice: at least 2
- leaderTrainingPlan.trainingSessions: at least 1, each agenda at least 4
- leaderTrainingPlan.coachingNotes: at least 4
- each measurementFramework list: at least 3
- each sessionPlan.flow: 4-7 segments, each at least 3 minutes`
	case intake.RoleYouthLeader:
		return `- activityIntegratedPlan.sessions: at least 1
- activityBank: at least 3, each with at least 3 debriefQuestions
- each leaderNotes list: at least 3
- each session.flow: 4-7 segments, each at least 3 minutes`
	default:
		return `- prepChecklist: at least 4 items
- each engagement list: at least 2 items
- each session.flow: 4-7 segments, each at least 3 minutes`
	}
}

// Compose builds the generation prompt for a normalized intake.
func Compose(n intake.Normalized) string {
	var b strings.Builder

	b.WriteString(`You are an expert Christian educator and ministry formation strategist.
Create a discipleship Blueprint: a practical plan a busy volunteer with no training in education theory can use to teach for transformation.
Write with pastoral warmth and educational rigor. Be concrete and actionable. Use simple, volunteer-friendly language. No academic jargon.

`)
	DefaultMethod.write(&b)

	b.WriteString("\nINPUTS\n")
	fmt.Fprintf(&b, "Task: %s\n", n.Task)
	fmt.Fprintf(&b, "Role: %s\n", n.Role)
	fmt.Fprintf(&b, "Design type: %s\n", n.DesignType)
	fmt.Fprintf(&b, "Time horizon: %s\n", n.TimeHorizon)
	fmt.Fprintf(&b, "Plan type: %s\n", n.PlanType)
	fmt.Fprintf(&b, "Audience (age group): %s\n", n.AgeGroup)
	fmt.Fprintf(&b, "Group name: %s\n", n.GroupName)
	fmt.Fprintf(&b, "Leader name: %s\n", orDefault(n.LeaderName, "Not provided"))
	fmt.Fprintf(&b, "Desired outcome: %s\n", n.DesiredOutcome)
	fmt.Fprintf(&b, "Topic / passage / series focus: %s\n", orDefault(n.TopicOrText, "Not provided"))
	fmt.Fprintf(&b, "Setting: %s\n", n.SettingLabel())
	fmt.Fprintf(&b, "Session duration (minutes): %d\n", n.DurationMinutes)
	fmt.Fprintf(&b, "Constraints: %s\n", orDefault(strings.Join(n.Constraints, ", "), "None provided"))

	b.WriteString("\nTRACK-SPECIFIC PRIORITIES\n")
	b.WriteString(trackGuidance(n.Role))
	b.WriteString("\n")

	b.WriteString("\nREQUIRED SHAPE (keys must match exactly)\n")
	b.WriteString(CanonicalShape())
	b.WriteString("\n")

	b.WriteString("\nHARD RULES\n")
	for _, r := range hardRules() {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	fmt.Fprintf(&b, "- header.role MUST be %q and modules MUST contain only %q.\n", n.Role, n.Role.Key())
	fmt.Fprintf(&b, "- header.context.designType MUST be %q and header.context.timeHorizon MUST be %q.\n", n.DesignType, n.TimeHorizon)
	fmt.Fprintf(&b, "- header.context.durationMinutes and every session durationMinutes MUST be %d.\n", n.DurationMinutes)
	fmt.Fprintf(&b, "- The lesson plan planType MUST be %q.\n", n.PlanType)
	if n.LeaderName == "" {
		b.WriteString("- header.preparedFor.leaderName MUST be an empty string.\n")
	}

	b.WriteString("\nCOUNT GUIDANCE\n")
	b.WriteString("- overview.outcomes.howToMeasureGrowth: at least 3 observable indicators (5 is better)\n")
	b.WriteString(countGuidance(n.Role))
	b.WriteString("\n")

	b.WriteString(`
RECOMMENDED RESOURCES RULES
- recommendedResources must include 3-6 credible, widely available items.
- Use real URLs only when confident; otherwise use SEARCH URLs:
  Amazon search: https://www.amazon.com/s?k=<urlencoded title + author>
  Publisher search: https://www.google.com/search?q=<urlencoded publisher + title>
- Do NOT invent ISBNs, endorsements or quotes.

FINAL CHECK BEFORE RETURNING
- Every flow segment has a movement and the minutes add up to the session duration.
- Only the module for the role exists and it is fully populated.
- Return pure JSON only. No markdown. No extra keys. No trailing commas.`)

	return b.String()
}
