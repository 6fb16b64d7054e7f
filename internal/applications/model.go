package applications

import "time"

// Application records that a user applied to a job posting with one of their
// resumes. A user applies to a given posting at most once.
type Application struct {
	ID          int64     `json:"application_id"`
	UserID      int64     `json:"user_id"`
	PostingID   int64     `json:"posting_id"`
	ResumeID    int64     `json:"resume_id"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
