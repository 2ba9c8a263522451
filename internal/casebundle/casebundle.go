// Package casebundle loads case content from JSON bundle files and seeds the
// content store. Bundles are authored offline and applied through the CLI or
// at server startup.
package casebundle

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/repositories"
)

// Evidence is one evidence item in a bundle. The ID is optional, a stable
// UUID is generated from the case slug and sort order when omitted.
type Evidence struct {
	ID        string              `json:"id,omitempty"`
	Title     string              `json:"title"`
	Type      models.EvidenceType `json:"type"`
	Content   string              `json:"content"`
	ImagePath string              `json:"imagePath,omitempty"`
}

// Case is one complete investigation scenario in a bundle.
type Case struct {
	ID              string     `json:"id,omitempty"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	CaseNumber      string     `json:"caseNumber"`
	Tier            string     `json:"tier"`
	IsFree          bool       `json:"isFree"`
	IsPublished     bool       `json:"isPublished"`
	Briefing        string     `json:"briefing"`
	SurfaceSolution string     `json:"surfaceSolution"`
	TrueSolution    string     `json:"trueSolution"`
	Evidence        []Evidence `json:"evidence"`
	Hints           []string   `json:"hints"`
}

// Bundle is the top-level JSON document.
type Bundle struct {
	Cases []Case `json:"cases"`
}

// Load reads and validates a bundle file.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read bundle", slog.String("path", path))
	}

	var bundle Bundle
	if err = json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.Wrap(err, "parse bundle", slog.String("path", path))
	}

	for _, c := range bundle.Cases {
		if c.Slug == "" || c.Title == "" {
			return nil, errors.New("case requires slug and title", slog.String("path", path))
		}
	}
	return &bundle, nil
}

// Apply seeds every case in the bundle into the content store. Existing cases
// with the same slug are replaced together with their evidence and hints.
func Apply(ctx context.Context, bundle *Bundle, cases *repositories.CaseRepository) error {
	for _, c := range bundle.Cases {
		caseID := c.ID
		if caseID == "" {
			caseID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("specter:case:"+c.Slug)).String()
		}

		evidence := make([]models.EvidenceItem, 0, len(c.Evidence))
		for i, item := range c.Evidence {
			evidenceID := item.ID
			if evidenceID == "" {
				evidenceID = uuid.NewSHA1(uuid.NameSpaceURL,
					[]byte("specter:evidence:"+c.Slug+":"+item.Title)).String()
			}
			evidence = append(evidence, models.EvidenceItem{
				ID:        evidenceID,
				CaseID:    caseID,
				Title:     item.Title,
				Type:      item.Type,
				Content:   item.Content,
				ImagePath: item.ImagePath,
				SortOrder: i + 1,
			})
		}

		err := cases.Upsert(ctx, models.Case{
			ID:              caseID,
			Slug:            c.Slug,
			Title:           c.Title,
			CaseNumber:      c.CaseNumber,
			Tier:            c.Tier,
			IsFree:          c.IsFree,
			IsPublished:     c.IsPublished,
			Briefing:        c.Briefing,
			SurfaceSolution: c.SurfaceSolution,
			TrueSolution:    c.TrueSolution,
		}, evidence, c.Hints)
		if err != nil {
			return errors.Wrap(err, "seed case", slog.String("slug", c.Slug))
		}
	}
	return nil
}
