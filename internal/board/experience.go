package board

import (
	"fmt"
	"strings"
)

// ExperienceLevel is the seniority ordinal shared by jobs and candidates.
type ExperienceLevel int

const (
	Entry ExperienceLevel = iota
	Mid
	Senior
	Executive
)

var experienceNames = map[ExperienceLevel]string{
	Entry:     "ENTRY",
	Mid:       "MID",
	Senior:    "SENIOR",
	Executive: "EXECUTIVE",
}

func (e ExperienceLevel) String() string {
	if name, ok := experienceNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ExperienceLevel(%d)", int(e))
}

// ParseExperienceLevel resolves a case-insensitive level name.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	for e, name := range experienceNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return e, nil
		}
	}
	return Entry, fmt.Errorf("unknown experience level %q", s)
}

// Distance returns the absolute ordinal gap between two levels.
func (e ExperienceLevel) Distance(other ExperienceLevel) int {
	d := int(e) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}
