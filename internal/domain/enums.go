package domain

// FileType represents the essay formats accepted for grading.
type FileType string

const (
	FileTypeDOCX FileType = "docx"
	FileTypePDF  FileType = "pdf"
	FileTypeTXT  FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileTypePDF:  "application/pdf",
	FileTypeTXT:  "text/plain",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"docx": FileTypeDOCX,
	"pdf":  FileTypePDF,
	"txt":  FileTypeTXT,
}

// UserRole is the role claim carried by API tokens.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleGrader UserRole = "grader"
)

// SubmissionStatus represents the outcome of a grading request.
type SubmissionStatus string

const (
	SubmissionStatusGraded SubmissionStatus = "graded"
	SubmissionStatusFailed SubmissionStatus = "failed"
)

// Trait selects one of the essay quality models.
type Trait int

const (
	TraitScore Trait = iota
	TraitIdea
	TraitOrganization
	TraitStyle
)

// Traits lists every trait in evaluation order.
var Traits = []Trait{TraitScore, TraitIdea, TraitOrganization, TraitStyle}

func (t Trait) String() string {
	switch t {
	case TraitScore:
		return "score"
	case TraitIdea:
		return "idea"
	case TraitOrganization:
		return "organization"
	case TraitStyle:
		return "style"
	default:
		return "unknown"
	}
}
