package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/spigell/matchboard/internal/board"
)

// MatchResult summarizes the fit between one candidate and one job. It is
// ephemeral: computed on demand, never persisted.
type MatchResult struct {
	JobID         string   `json:"job_id"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	Reason        string   `json:"reason"`
}

const (
	// Skill overlap alone can never contribute more than this.
	skillComponentMax = 60.0

	experienceExactPoints = 20.0
	experienceNearPoints  = 10.0

	locationPoints        = 15.0
	locationNeutralPoints = 7.0
)

var proficiencyWeight = map[board.Proficiency]float64{
	board.Beginner:     0.6,
	board.Intermediate: 0.8,
	board.Advanced:     1.0,
	board.Expert:       1.2,
}

// Score rates a job against a candidate on a 0-100 scale. It is pure and
// deterministic: identical inputs always produce an identical result.
func Score(candidate *board.CandidateProfile, job *board.JobPosting) MatchResult {
	skillScore, matched := skillOverlap(candidate, job)
	experienceScore := experienceAlignment(candidate, job)
	locationScore := locationAlignment(candidate, job)

	total := skillScore + experienceScore + locationScore
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return MatchResult{
		JobID:         job.ID,
		Score:         int(math.Round(total)),
		MatchedSkills: matched,
		Reason:        dominantReason(skillScore, experienceScore, locationScore, len(matched), len(job.RequiredSkills)),
	}
}

func skillOverlap(candidate *board.CandidateProfile, job *board.JobPosting) (float64, []string) {
	// The divisor is floored at 1 only to guard division: a job with no
	// required skills still contributes 0 from this component.
	divisor := len(job.RequiredSkills)
	if divisor < 1 {
		divisor = 1
	}
	base := skillComponentMax / float64(divisor)

	var points float64
	matched := []string{}
	seen := make(map[string]bool, len(job.RequiredSkills))
	for _, name := range job.RequiredSkills {
		key := board.NormalizeSkill(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		record, ok := candidate.Skills.Lookup(name)
		if !ok {
			continue
		}
		points += base * proficiencyWeight[record.Proficiency]
		matched = append(matched, name)
	}

	if points > skillComponentMax {
		points = skillComponentMax
	}
	sort.Strings(matched)
	return points, matched
}

func experienceAlignment(candidate *board.CandidateProfile, job *board.JobPosting) float64 {
	switch candidate.ExperienceLevel.Distance(job.ExperienceLevel) {
	case 0:
		return experienceExactPoints
	case 1:
		return experienceNearPoints
	default:
		return 0
	}
}

func locationAlignment(candidate *board.CandidateProfile, job *board.JobPosting) float64 {
	if job.Remote {
		return locationPoints
	}
	if candidate.PreferredLocation == "" {
		// No declared preference: neutral partial credit rather than a miss.
		return locationNeutralPoints
	}
	if job.LocationMatches(candidate.PreferredLocation) {
		return locationPoints
	}
	return 0
}

// dominantReason names the factor that contributed the most points. Ties
// resolve in a fixed order: skills, then experience, then location.
func dominantReason(skills, experience, location float64, matchedCount, requiredCount int) string {
	switch {
	case skills >= experience && skills >= location:
		return fmt.Sprintf("skill overlap: %d of %d required skills", matchedCount, requiredCount)
	case experience >= location:
		return "experience level aligned"
	default:
		return "location compatible"
	}
}
