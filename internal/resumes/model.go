package resumes

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Resume-type markers. Resumes written by the user carry TypeUserAuthored;
// resumes produced by applying feedback carry the marker of the feedback kind
// they came from.
const (
	TypeUserAuthored     = "1"
	TypePostingRevision  = "2"
	TypeStandardRevision = "3"
)

// Date is a calendar day that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and the empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		d.Time = t
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

// Experience is a prior or current job entry.
type Experience struct {
	ID               int64  `json:"-"`
	ResumeID         int64  `json:"-"`
	JobTitle         string `json:"job_title"`
	Department       string `json:"department"`
	Position         string `json:"position,omitempty"`
	JobDescription   string `json:"job_description,omitempty"`
	EmploymentStatus bool   `json:"employment_status"`
	StartDate        Date   `json:"start_date"`
	EndDate          *Date  `json:"end_date,omitempty"`
}

// Education is a school or course entry. DegreeLabel is filled on projections
// from the degree code table; it is never stored.
type Education struct {
	ID          int64  `json:"-"`
	ResumeID    int64  `json:"-"`
	Organ       string `json:"organ"`
	Department  string `json:"department"`
	DegreeLevel string `json:"degree_level"`
	DegreeLabel string `json:"degree_label,omitempty"`
	Score       string `json:"score,omitempty"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date,omitempty"`
}

// Project is a personal or professional project entry.
type Project struct {
	ID          int64  `json:"-"`
	ResumeID    int64  `json:"-"`
	Title       string `json:"title"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Activity is an extracurricular or community entry.
type Activity struct {
	ID          int64  `json:"-"`
	ResumeID    int64  `json:"-"`
	Title       string `json:"title"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Qualification is a certificate or license entry.
type Qualification struct {
	ID              int64  `json:"-"`
	ResumeID        int64  `json:"-"`
	Title           string `json:"title"`
	AcquisitionDate Date   `json:"acquisition_date"`
	Score           string `json:"score,omitempty"`
	Organ           string `json:"organ,omitempty"`
}

// TechnologyStack is a single named technology.
type TechnologyStack struct {
	ID       int64  `json:"-"`
	ResumeID int64  `json:"-"`
	Title    string `json:"title"`
}

// Resume is the parent row plus its child collections.
type Resume struct {
	ID               int64     `json:"resume_id"`
	UserID           int64     `json:"user_id"`
	PostingID        *int64    `json:"posting_id,omitempty"`
	ResumeType       string    `json:"resume_type"`
	IsActive         bool      `json:"-"`
	Title            string    `json:"title"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Gender           string    `json:"gender"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone"`
	MilitaryService  string    `json:"military_service"`
	BirthDate        *Date     `json:"birth_date,omitempty"`
	SelfIntroduction string    `json:"self_introduction,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Experiences      []Experience      `json:"experiences"`
	Educations       []Education       `json:"educations"`
	Projects         []Project         `json:"projects"`
	Activities       []Activity        `json:"activities"`
	Qualifications   []Qualification   `json:"qualifications"`
	TechnologyStacks []TechnologyStack `json:"technology_stacks"`
}

// Projection is the read model handed to clients and to the feedback
// generator: the full resume with code labels resolved and the active image
// surfaced.
type Projection struct {
	Resume
	GenderLabel          string `json:"gender_label"`
	ResumeTypeLabel      string `json:"resume_type_label"`
	MilitaryServiceLabel string `json:"military_service_label"`
	ImageKey             string `json:"-"`
	ImageURL             string `json:"image_url,omitempty"`
}

// Summary is a list-view row.
type Summary struct {
	ID         int64     `json:"resume_id"`
	Title      string    `json:"title"`
	ResumeType string    `json:"resume_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateInput carries everything needed to create a resume with its children.
// It is also the shape the revision generator must return, so structural
// validation lives here.
type CreateInput struct {
	Title            string `json:"title"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	MilitaryService  string `json:"military_service"`
	BirthDate        *Date  `json:"birth_date"`
	SelfIntroduction string `json:"self_introduction"`

	Experiences      []Experience      `json:"experiences"`
	Educations       []Education       `json:"educations"`
	Projects         []Project         `json:"projects"`
	Activities       []Activity        `json:"activities"`
	Qualifications   []Qualification   `json:"qualifications"`
	TechnologyStacks []TechnologyStack `json:"technology_stacks"`
}

// Validate checks the fields every stored resume must carry.
func (in CreateInput) Validate() error {
	required := map[string]string{
		"title":            strings.TrimSpace(in.Title),
		"name":             strings.TrimSpace(in.Name),
		"email":            strings.TrimSpace(in.Email),
		"gender":           strings.TrimSpace(in.Gender),
		"phone":            strings.TrimSpace(in.Phone),
		"military_service": strings.TrimSpace(in.MilitaryService),
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	return nil
}

func (in CreateInput) toResume() Resume {
	return Resume{
		Title:            strings.TrimSpace(in.Title),
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.TrimSpace(in.Email),
		Gender:           strings.TrimSpace(in.Gender),
		Address:          strings.TrimSpace(in.Address),
		Phone:            strings.TrimSpace(in.Phone),
		MilitaryService:  strings.TrimSpace(in.MilitaryService),
		BirthDate:        in.BirthDate,
		SelfIntroduction: in.SelfIntroduction,
		IsActive:         true,
		Experiences:      in.Experiences,
		Educations:       in.Educations,
		Projects:         in.Projects,
		Activities:       in.Activities,
		Qualifications:   in.Qualifications,
		TechnologyStacks: in.TechnologyStacks,
	}
}
