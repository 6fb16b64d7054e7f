package feedback

import (
	"fmt"
	"time"
)

// Feedback category codes (division feedback_division in the codes table).
const (
	CategoryWellDone       = "1"
	CategoryRequiredFix    = "2"
	CategoryImprovement    = "3"
	CategoryRecommendation = "4"
)

// Content is one categorized feedback item.
type Content struct {
	ID            int64  `json:"-"`
	FeedbackID    int64  `json:"-"`
	Division      string `json:"feedback_division"`
	DivisionLabel string `json:"feedback_division_label,omitempty"`
	Result        string `json:"feedback_result"`
}

// Feedback is a persisted critique of a resume. PostingID is set only for
// posting-aware feedback; standard feedback always carries MatchingRate 0.
type Feedback struct {
	ID            int64     `json:"feedback_id"`
	ResumeID      int64     `json:"resume_id"`
	UserID        int64     `json:"user_id"`
	PostingID     *int64    `json:"posting_id,omitempty"`
	ParentContent string    `json:"parent_content"`
	MatchingRate  int       `json:"matching_rate"`
	CreatedAt     time.Time `json:"created_at"`
	Contents      []Content `json:"feedback_contents,omitempty"`
}

// Critique is the schema the LLM must return for a feedback request.
type Critique struct {
	ParentContent string            `json:"parent_content"`
	MatchingRate  int               `json:"matching_rate"`
	Contents      []CritiqueContent `json:"feedback_contents"`
}

// CritiqueContent is one item of the LLM critique.
type CritiqueContent struct {
	Division string `json:"feedback_division"`
	Result   string `json:"feedback_result"`
}

var validCategories = map[string]bool{
	CategoryWellDone:       true,
	CategoryRequiredFix:    true,
	CategoryImprovement:    true,
	CategoryRecommendation: true,
}

// Validate checks the critique is structurally complete. Anything missing
// makes the whole generation a failure; partial critiques are never stored.
func (c Critique) Validate() error {
	if c.ParentContent == "" {
		return fmt.Errorf("critique missing parent_content")
	}
	if c.MatchingRate < 0 || c.MatchingRate > 100 {
		return fmt.Errorf("critique matching_rate %d out of range", c.MatchingRate)
	}
	if len(c.Contents) == 0 {
		return fmt.Errorf("critique has no feedback_contents")
	}
	for i, item := range c.Contents {
		if !validCategories[item.Division] {
			return fmt.Errorf("critique content %d has unknown feedback_division %q", i, item.Division)
		}
		if item.Result == "" {
			return fmt.Errorf("critique content %d has empty feedback_result", i)
		}
	}
	return nil
}
