// Package render prints blueprints and listings for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/store"
	"github.com/discipleshipbydesign/blueprint/internal/ui/theme"
)

// Blueprint writes a readable outline of bp to w.
func Blueprint(w io.Writer, bp *blueprint.Blueprint) {
	h := bp.Header
	fmt.Fprintln(w, theme.Title.Render(h.Title))
	if h.Subtitle != "" {
		fmt.Fprintln(w, theme.Subtitle.Render(h.Subtitle))
	}
	ctx := h.Context
	fmt.Fprintln(w, theme.Card.Render(strings.Join([]string{
		field("Role", string(h.Role)),
		field("Prepared for", preparedFor(h.PreparedFor)),
		field("Design", fmt.Sprintf("%s, %s", ctx.DesignType, ctx.TimeHorizon)),
		field("Audience", fmt.Sprintf("%s, %s", ctx.AgeGroup, ctx.Setting)),
		field("Length", fmt.Sprintf("%d min", ctx.DurationMinutes)),
		field("Topic", ctx.TopicOrText),
	}, "\n")))

	section(w, "Formation goal")
	fmt.Fprintln(w, bp.Overview.Outcomes.FormationGoal)
	bullets(w, bp.Overview.Outcomes.HowToMeasureGrowth)

	section(w, "Objectives")
	hhh(w, bp.Overview.HeadHeartHandsObjectives)

	if mod := bp.Modules.Module; mod != nil {
		for i, s := range mod.Sessions() {
			section(w, fmt.Sprintf("Session %d: %s (%d min)", i+1, s.Title, s.DurationMinutes))
			hhh(w, s.Objectives)
			for _, f := range s.Flow {
				line := fmt.Sprintf("  %3d min  %-8s %s", f.Minutes, f.Movement, f.Segment)
				fmt.Fprintln(w, theme.MovementStyle(string(f.Movement)).Render(line))
			}
		}
	}

	if len(bp.RecommendedResources) > 0 {
		section(w, "Recommended resources")
		for _, r := range bp.RecommendedResources {
			fmt.Fprintf(w, "  %s, %s (%s)\n", theme.Label.Render(r.Title), r.Author, r.Publisher)
			if r.WhyThisHelps != "" {
				fmt.Fprintln(w, "    "+theme.Hint.Render(r.WhyThisHelps))
			}
		}
	}
}

// List writes one line per item, newest first as given.
func List(w io.Writer, items []store.ListItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No blueprints yet."))
		return
	}
	header := fmt.Sprintf("%-36s  %-16s  %-14s  %-24s  %s", "ID", "Created", "Role", "Group", "Title")
	fmt.Fprintln(w, theme.Label.Render(header))
	rule(w, len(header))
	for _, it := range items {
		fmt.Fprintf(w, "%-36s  %-16s  %-14s  %-24s  %s\n",
			it.ID,
			it.CreatedAt.Local().Format("2006-01-02 15:04"),
			it.Role,
			truncate(it.GroupName, 24),
			it.Title,
		)
	}
}

// Failure writes a generation failure with its diagnostics.
func Failure(w io.Writer, stage, message string, details map[string][]string) {
	fmt.Fprintf(w, "%s %s: %s\n", theme.Failed.Render("✗"), theme.Label.Render(stage), message)
	for path, msgs := range details {
		for _, m := range msgs {
			fmt.Fprintf(w, "  %s %s\n", theme.Hint.Render(path), m)
		}
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, theme.Section.Render(title))
}

func field(label, value string) string {
	return theme.Label.Render(label+":") + " " + value
}

func preparedFor(p blueprint.PreparedFor) string {
	if p.LeaderName == "" {
		return p.GroupName
	}
	return fmt.Sprintf("%s (%s)", p.GroupName, p.LeaderName)
}

func hhh(w io.Writer, o blueprint.HeadHeartHands) {
	fmt.Fprintln(w, "  "+lipgloss.NewStyle().Foreground(theme.Head).Render("Head: ")+o.Head)
	fmt.Fprintln(w, "  "+lipgloss.NewStyle().Foreground(theme.Heart).Render("Heart: ")+o.Heart)
	fmt.Fprintln(w, "  "+lipgloss.NewStyle().Foreground(theme.Hands).Render("Hands: ")+o.Hands)
}

func bullets(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintln(w, "  • "+it)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
