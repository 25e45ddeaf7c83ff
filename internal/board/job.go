package board

import (
	"strings"
	"time"
)

// JobPosting is a read-only snapshot of a posting from the job catalog.
// The matching core never mutates it.
type JobPosting struct {
	ID              string          `mapstructure:"id"`
	Title           string          `mapstructure:"title"`
	RequiredSkills  []string        `mapstructure:"required_skills"`
	ExperienceLevel ExperienceLevel `mapstructure:"experience_level"`
	Location        string          `mapstructure:"location"`
	Remote          bool            `mapstructure:"remote"`
	Active          bool            `mapstructure:"active"`
	Deadline        *time.Time      `mapstructure:"deadline"`
	PostedAt        time.Time       `mapstructure:"posted_at"`
}

// OpenAt reports whether the posting accepts applications at the given time.
func (j *JobPosting) OpenAt(now time.Time) bool {
	if !j.Active {
		return false
	}
	if j.Deadline != nil && !now.Before(*j.Deadline) {
		return false
	}
	return true
}

// LocationMatches reports whether the preferred location satisfies the
// posting, matching case-insensitively. Remote postings match any location.
func (j *JobPosting) LocationMatches(preferred string) bool {
	if j.Remote {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(preferred), strings.TrimSpace(j.Location))
}

// Jobs is a mutable working set of postings flowing through ranking filters.
type Jobs struct {
	Items []*JobPosting
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *JobPosting {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Exclude removes postings with the given ids and returns the ids actually
// removed. Order of remaining items is not preserved.
func (j *Jobs) Exclude(ids []string) []string {
	var excluded []string
	for _, id := range ids {
		for idx, job := range j.Items {
			if job.ID == id {
				j.RemoveByIndex(idx)
				excluded = append(excluded, job.ID)
				break
			}
		}
	}
	return excluded
}

// ExcludeClosed removes postings that are inactive or past deadline at the
// given time and returns the removed ids.
func (j *Jobs) ExcludeClosed(now time.Time) []string {
	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if job.OpenAt(now) {
			kept = append(kept, job)
			continue
		}
		excluded = append(excluded, job.ID)
	}
	j.Items = kept
	return excluded
}

// Clone returns a new working set sharing the underlying postings. Filters
// mutate the set they are given, so callers reusing a snapshot clone it first.
func (j *Jobs) Clone() *Jobs {
	return &Jobs{Items: append([]*JobPosting(nil), j.Items...)}
}

// RemoveByIndex removes a posting from the set by index. Do not preserve order.
func (j *Jobs) RemoveByIndex(idx int) {
	j.Items[idx] = j.Items[len(j.Items)-1]
	j.Items = j.Items[:len(j.Items)-1]
}
