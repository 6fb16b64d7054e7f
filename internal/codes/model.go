package codes

// Divisions used by the resume domain.
const (
	DivisionGender           = "gender"
	DivisionResumeType       = "resume_type"
	DivisionMilitary         = "military"
	DivisionDegree           = "degree"
	DivisionFeedbackDivision = "feedback_division"
)

// Code maps a (division, detail_id) pair to a human-readable label.
type Code struct {
	ID       int64
	Division string
	DetailID string
	Label    string
}
