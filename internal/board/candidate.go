package board

// CandidateProfile is a read-only snapshot of a candidate from the identity
// collaborator: one per ranking call.
type CandidateProfile struct {
	ID                string
	Skills            SkillSet
	PreferredLocation string
	ExperienceLevel   ExperienceLevel
}
