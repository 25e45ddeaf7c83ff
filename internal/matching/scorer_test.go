package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/matchboard/internal/board"
)

func candidateWith(skills []board.SkillRecord, level board.ExperienceLevel, location string) *board.CandidateProfile {
	return &board.CandidateProfile{
		ID:                "cand-1",
		Skills:            board.NewSkillSet(skills),
		PreferredLocation: location,
		ExperienceLevel:   level,
	}
}

func TestScoreStrongMatch(t *testing.T) {
	t.Parallel()

	candidate := candidateWith([]board.SkillRecord{
		{Name: "Java", Proficiency: board.Expert, YearsExperience: 7},
		{Name: "SQL", Proficiency: board.Advanced, YearsExperience: 5},
	}, board.Senior, "Remote")

	job := &board.JobPosting{
		ID:              "job-1",
		RequiredSkills:  []string{"Java", "SQL"},
		ExperienceLevel: board.Senior,
		Remote:          true,
		Active:          true,
	}

	result := Score(candidate, job)

	if result.Score < 95 {
		t.Fatalf("expected score >= 95, got %d", result.Score)
	}
	if !reflect.DeepEqual(result.MatchedSkills, []string{"Java", "SQL"}) {
		t.Fatalf("unexpected matched skills: %v", result.MatchedSkills)
	}
}

func TestScoreNoOverlap(t *testing.T) {
	t.Parallel()

	candidate := candidateWith([]board.SkillRecord{
		{Name: "Cobol", Proficiency: board.Expert},
	}, board.Entry, "Lisbon")

	job := &board.JobPosting{
		ID:              "job-2",
		RequiredSkills:  []string{"Rust", "Kubernetes"},
		ExperienceLevel: board.Executive,
		Location:        "Oslo",
		Active:          true,
	}

	result := Score(candidate, job)

	if result.Score > 7 {
		t.Fatalf("expected score <= 7, got %d", result.Score)
	}
	if len(result.MatchedSkills) != 0 {
		t.Fatalf("expected no matched skills, got %v", result.MatchedSkills)
	}
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	candidate := candidateWith([]board.SkillRecord{
		{Name: "Go", Proficiency: board.Intermediate, YearsExperience: 2},
		{Name: "Postgres", Proficiency: board.Advanced, YearsExperience: 4},
	}, board.Mid, "Berlin")

	job := &board.JobPosting{
		ID:              "job-3",
		RequiredSkills:  []string{"Go", "Postgres", "Kafka"},
		ExperienceLevel: board.Senior,
		Location:        "Berlin",
		Active:          true,
	}

	first := Score(candidate, job)
	second := Score(candidate, job)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		candidate *board.CandidateProfile
		job       *board.JobPosting
	}{
		{
			name:      "empty everything",
			candidate: candidateWith(nil, board.Entry, ""),
			job:       &board.JobPosting{ID: "j1"},
		},
		{
			name: "expert across the board",
			candidate: candidateWith([]board.SkillRecord{
				{Name: "Go", Proficiency: board.Expert},
				{Name: "SQL", Proficiency: board.Expert},
				{Name: "Kafka", Proficiency: board.Expert},
			}, board.Senior, "Remote"),
			job: &board.JobPosting{
				ID:              "j2",
				RequiredSkills:  []string{"Go", "SQL", "Kafka"},
				ExperienceLevel: board.Senior,
				Remote:          true,
			},
		},
		{
			name:      "no required skills",
			candidate: candidateWith([]board.SkillRecord{{Name: "Go", Proficiency: board.Expert}}, board.Mid, "Berlin"),
			job:       &board.JobPosting{ID: "j3", ExperienceLevel: board.Mid, Location: "Berlin"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Score(tc.candidate, tc.job)
			if result.Score < 0 || result.Score > 100 {
				t.Fatalf("score out of bounds: %d", result.Score)
			}
		})
	}
}

func TestScoreSkillComponentCapped(t *testing.T) {
	t.Parallel()

	// A single expert skill would contribute 60*1.2 without the cap.
	candidate := candidateWith([]board.SkillRecord{
		{Name: "Go", Proficiency: board.Expert},
	}, board.Executive, "")

	job := &board.JobPosting{
		ID:              "job-cap",
		RequiredSkills:  []string{"Go"},
		ExperienceLevel: board.Entry,
		Location:        "Oslo",
	}

	result := Score(candidate, job)

	// Capped skills (60) + no experience (0) + neutral location (7).
	if result.Score != 67 {
		t.Fatalf("expected 67, got %d", result.Score)
	}
}

func TestScoreCaseInsensitiveSkills(t *testing.T) {
	t.Parallel()

	candidate := candidateWith([]board.SkillRecord{
		{Name: "java", Proficiency: board.Advanced},
	}, board.Mid, "")

	job := &board.JobPosting{
		ID:              "job-ci",
		RequiredSkills:  []string{"Java"},
		ExperienceLevel: board.Mid,
	}

	result := Score(candidate, job)

	if !reflect.DeepEqual(result.MatchedSkills, []string{"Java"}) {
		t.Fatalf("expected job spelling in matched skills, got %v", result.MatchedSkills)
	}
	// 60 skills + 20 experience + 7 neutral location.
	if result.Score != 87 {
		t.Fatalf("expected 87, got %d", result.Score)
	}
}

func TestScoreExperienceSteps(t *testing.T) {
	t.Parallel()

	job := &board.JobPosting{ID: "job-exp", ExperienceLevel: board.Senior, Remote: true}

	cases := []struct {
		level board.ExperienceLevel
		want  int
	}{
		{board.Senior, 35},    // 20 + 15 remote
		{board.Mid, 25},       // 10 + 15
		{board.Executive, 25}, // 10 + 15
		{board.Entry, 15},     // 0 + 15
	}

	for _, tc := range cases {
		result := Score(candidateWith(nil, tc.level, "anywhere"), job)
		if result.Score != tc.want {
			t.Fatalf("level %s: expected %d, got %d", tc.level, tc.want, result.Score)
		}
	}
}

func TestReasonDominanceOrder(t *testing.T) {
	t.Parallel()

	// Experience (20) beats location (15) here; skills contribute 0.
	candidate := candidateWith(nil, board.Senior, "Berlin")
	job := &board.JobPosting{
		ID:              "job-r",
		RequiredSkills:  []string{"Go"},
		ExperienceLevel: board.Senior,
		Location:        "Berlin",
	}

	result := Score(candidate, job)
	if result.Reason != "experience level aligned" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}

	// With matching skills the skill factor dominates.
	candidate = candidateWith([]board.SkillRecord{{Name: "Go", Proficiency: board.Expert}}, board.Senior, "Berlin")
	result = Score(candidate, job)
	if result.Reason != "skill overlap: 1 of 1 required skills" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}
