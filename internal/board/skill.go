package board

import (
	"fmt"
	"strings"
)

// Proficiency is an ordinal self-assessment of a candidate's skill.
type Proficiency int

const (
	Beginner Proficiency = iota
	Intermediate
	Advanced
	Expert
)

var proficiencyNames = map[Proficiency]string{
	Beginner:     "BEGINNER",
	Intermediate: "INTERMEDIATE",
	Advanced:     "ADVANCED",
	Expert:       "EXPERT",
}

func (p Proficiency) String() string {
	if name, ok := proficiencyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Proficiency(%d)", int(p))
}

// ParseProficiency resolves a case-insensitive proficiency name.
func ParseProficiency(s string) (Proficiency, error) {
	for p, name := range proficiencyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return Beginner, fmt.Errorf("unknown proficiency %q", s)
}

// SkillRecord is a single declared skill of a candidate.
type SkillRecord struct {
	Name            string      `mapstructure:"name"`
	Proficiency     Proficiency `mapstructure:"proficiency"`
	YearsExperience int         `mapstructure:"years"`
}

// NormalizeSkill produces the case-insensitive key a skill is stored and
// matched under.
func NormalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SkillSet holds a candidate's skills keyed by normalized name. Duplicate
// names collapse to the last record seen.
type SkillSet map[string]SkillRecord

// NewSkillSet builds a SkillSet from a list of records.
func NewSkillSet(records []SkillRecord) SkillSet {
	set := make(SkillSet, len(records))
	for _, r := range records {
		key := NormalizeSkill(r.Name)
		if key == "" {
			continue
		}
		if r.YearsExperience < 0 {
			r.YearsExperience = 0
		}
		set[key] = r
	}
	return set
}

// Lookup returns the record for a skill name, matching case-insensitively.
func (s SkillSet) Lookup(name string) (SkillRecord, bool) {
	r, ok := s[NormalizeSkill(name)]
	return r, ok
}

func (s SkillSet) Len() int {
	return len(s)
}
