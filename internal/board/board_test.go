package board

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSkillSetNormalizes(t *testing.T) {
	t.Parallel()

	set := NewSkillSet([]SkillRecord{
		{Name: "  Java ", Proficiency: Advanced, YearsExperience: 3},
		{Name: "JAVA", Proficiency: Expert, YearsExperience: 5},
		{Name: "", Proficiency: Beginner},
		{Name: "SQL", Proficiency: Intermediate, YearsExperience: -2},
	})

	if set.Len() != 2 {
		t.Fatalf("expected 2 skills, got %d", set.Len())
	}

	record, ok := set.Lookup("java")
	if !ok {
		t.Fatalf("expected java to be present")
	}
	if record.Proficiency != Expert {
		t.Fatalf("expected duplicate to collapse to the last record, got %s", record.Proficiency)
	}

	record, ok = set.Lookup("Sql")
	if !ok {
		t.Fatalf("expected case-insensitive lookup to succeed")
	}
	if record.YearsExperience != 0 {
		t.Fatalf("expected negative years to floor at 0, got %d", record.YearsExperience)
	}
}

func TestJobOpenAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		job  JobPosting
		want bool
	}{
		{"active without deadline", JobPosting{Active: true}, true},
		{"inactive", JobPosting{Active: false}, false},
		{"deadline in future", JobPosting{Active: true, Deadline: &future}, true},
		{"deadline passed", JobPosting{Active: true, Deadline: &past}, false},
		{"deadline exactly now", JobPosting{Active: true, Deadline: &now}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.OpenAt(now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestJobsExcludeClosed(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)

	jobs := &Jobs{Items: []*JobPosting{
		{ID: "open", Active: true},
		{ID: "inactive", Active: false},
		{ID: "expired", Active: true, Deadline: &past},
	}}

	excluded := jobs.ExcludeClosed(now)

	if len(excluded) != 2 {
		t.Fatalf("expected 2 exclusions, got %v", excluded)
	}
	if jobs.Len() != 1 || jobs.Items[0].ID != "open" {
		t.Fatalf("expected only the open posting to remain, got %d items", jobs.Len())
	}
}

func TestJobsExclude(t *testing.T) {
	t.Parallel()

	jobs := &Jobs{Items: []*JobPosting{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}

	excluded := jobs.Exclude([]string{"b", "missing"})

	if len(excluded) != 1 || excluded[0] != "b" {
		t.Fatalf("unexpected exclusions: %v", excluded)
	}
	if jobs.Len() != 2 || jobs.FindByID("b") != nil {
		t.Fatalf("expected b to be removed")
	}
}

func TestLoadJobsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	content := `jobs:
  - id: job-1
    title: Senior Go Engineer
    required_skills: [Go, SQL]
    experience_level: SENIOR
    location: Berlin
    remote: true
    active: true
    deadline: 2026-12-01T00:00:00Z
    posted_at: 2026-08-01T00:00:00Z
  - id: job-2
    title: Data Analyst
    experience_level: entry
    active: false
    posted_at: 2026-07-15T00:00:00Z
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	jobs, err := LoadJobsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if jobs.Len() != 2 {
		t.Fatalf("expected 2 postings, got %d", jobs.Len())
	}

	job := jobs.FindByID("job-1")
	if job == nil {
		t.Fatalf("expected job-1 to be present")
	}
	if job.ExperienceLevel != Senior {
		t.Fatalf("expected SENIOR, got %s", job.ExperienceLevel)
	}
	if job.Deadline == nil || job.Deadline.Year() != 2026 {
		t.Fatalf("expected parsed deadline, got %v", job.Deadline)
	}
	if !job.Remote || len(job.RequiredSkills) != 2 {
		t.Fatalf("unexpected posting: %+v", job)
	}

	if jobs.FindByID("job-2").ExperienceLevel != Entry {
		t.Fatalf("expected lowercase level names to parse")
	}
}

func TestLoadCandidateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "candidate.yaml")
	content := `id: cand-1
preferred_location: Berlin
experience_level: SENIOR
skills:
  - name: Java
    proficiency: EXPERT
    years: 7
  - name: SQL
    proficiency: ADVANCED
    years: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	candidate, err := LoadCandidateFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if candidate.ID != "cand-1" || candidate.ExperienceLevel != Senior {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}

	record, ok := candidate.Skills.Lookup("java")
	if !ok || record.Proficiency != Expert || record.YearsExperience != 7 {
		t.Fatalf("unexpected java record: %+v", record)
	}
}

func TestLoadCandidateFileRequiresID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "candidate.yaml")
	if err := os.WriteFile(path, []byte("preferred_location: Oslo\n"), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	if _, err := LoadCandidateFile(path); err == nil {
		t.Fatalf("expected an error for a snapshot without id")
	}
}
