package blueprint

import (
	"sort"
	"strings"
)

// Violation is one failed check. Path is dotted from the document root
// ("modules.teacher.lessonPlan.sessions.0.flow"); "" is the root itself.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return "(root): " + v.Message
	}
	return v.Path + ": " + v.Message
}

// Violations is a flat list sorted by path then message.
type Violations []Violation

// Map groups messages by path. This is the shape fed to the repair prompt
// and returned to HTTP callers.
func (vs Violations) Map() map[string][]string {
	out := make(map[string][]string, len(vs))
	for _, v := range vs {
		key := v.Path
		if key == "" {
			key = "(root)"
		}
		out[key] = append(out[key], v.Message)
	}
	return out
}

func (vs Violations) String() string {
	lines := make([]string, len(vs))
	for i, v := range vs {
		lines[i] = v.String()
	}
	return strings.Join(lines, "; ")
}

// normalize sorts and drops exact duplicates.
func (vs Violations) normalize() Violations {
	if len(vs) == 0 {
		return nil
	}
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].Path != vs[j].Path {
			return vs[i].Path < vs[j].Path
		}
		return vs[i].Message < vs[j].Message
	})
	out := vs[:1]
	for _, v := range vs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func joinPath(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
