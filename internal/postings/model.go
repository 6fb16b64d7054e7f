package postings

import "time"

// Posting is a job posting owned by a user. The feedback pipeline reads it as
// context for posting-aware critiques and revisions; it is never mutated there.
type Posting struct {
	ID            int64      `json:"posting_id"`
	UserID        int64      `json:"user_id"`
	URL           string     `json:"url,omitempty"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Qualification string     `json:"qualification"`
	Prefer        string     `json:"prefer"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
