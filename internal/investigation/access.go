package investigation

import (
	"context"
	"log/slog"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/models"
	"github.com/myrjola/specter/internal/repositories"
)

// AccessGate decides whether a user may reach a case's evidence, hints, and
// theory submission. Free cases are open to every authenticated user; paid
// cases require an entitlement. Entitlements are read fresh on every request
// because purchases complete asynchronously between requests.
type AccessGate struct {
	entitlements *repositories.EntitlementRepository
}

func NewAccessGate(entitlements *repositories.EntitlementRepository) *AccessGate {
	return &AccessGate{entitlements: entitlements}
}

// CanAccess reports whether the user may interact with the case.
func (g *AccessGate) CanAccess(ctx context.Context, userID []byte, c *models.Case) (bool, error) {
	if c.IsFree {
		return true, nil
	}
	has, err := g.entitlements.Has(ctx, userID, c.ID)
	if err != nil {
		return false, errors.Wrap(err, "check entitlement", slog.String("caseID", c.ID))
	}
	return has, nil
}
