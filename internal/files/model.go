package files

import "time"

// Fileable table names a file row can attach to.
const (
	TableResumes = "resumes"
)

// Purposes describe what an attached file is for.
const (
	PurposeResumeImage = "resume_image"
)

// File is a stored-object record attached to a domain row via
// (fileable_table, fileable_id).
type File struct {
	ID            int64     `json:"file_id"`
	UserID        int64     `json:"user_id"`
	FileableID    int64     `json:"fileable_id"`
	FileableTable string    `json:"fileable_table"`
	Purpose       string    `json:"purpose"`
	OrgFileName   string    `json:"org_file_name"`
	ModFileName   string    `json:"mod_file_name"`
	FileType      string    `json:"filetype"`
	FileKey       string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
