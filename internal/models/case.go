package models

// Case is one investigation scenario with a briefing, an evidence set, and a
// two-layer solution. Cases are immutable at runtime, they are owned by the
// content store and seeded through the CLI.
type Case struct {
	ID              string `db:"id" json:"id"`
	Slug            string `db:"slug" json:"slug"`
	Title           string `db:"title" json:"title"`
	CaseNumber      string `db:"case_number" json:"caseNumber"`
	Tier            string `db:"tier" json:"tier"`
	IsFree          bool   `db:"is_free" json:"isFree"`
	IsPublished     bool   `db:"is_published" json:"-"`
	Briefing        string `db:"briefing" json:"briefing"`
	SurfaceSolution string `db:"surface_solution" json:"-"`
	TrueSolution    string `db:"true_solution" json:"-"`
}

type EvidenceType string

const (
	EvidenceTypeDocument   EvidenceType = "document"
	EvidenceTypeTranscript EvidenceType = "transcript"
	EvidenceTypeReport     EvidenceType = "report"
	EvidenceTypeImage      EvidenceType = "image"
)

// EvidenceItem is a single piece of evidence belonging to a case. SortOrder
// defines the stable 1-based display numbering independent of hint reveals.
type EvidenceItem struct {
	ID        string       `db:"id" json:"id"`
	CaseID    string       `db:"case_id" json:"caseId"`
	Title     string       `db:"title" json:"title"`
	Type      EvidenceType `db:"type" json:"type"`
	Content   string       `db:"content" json:"content"`
	ImagePath string       `db:"image_path" json:"imagePath,omitempty"`
	SortOrder int          `db:"sort_order" json:"sortOrder"`
}
