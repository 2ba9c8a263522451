// Package grant manages case entitlements.
package grant

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/repositories"
	"github.com/myrjola/specter/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "grant",
	Title: "Entitlements",
}

var sqliteURL string

func init() {
	Entitlement.Flags().StringVar(&sqliteURL, "sqlite-url", "./specter.sqlite", "SQLite URL")
}

var Entitlement = &cobra.Command{
	Use:     "grant-entitlement <base64-user-id> <case-slug>",
	GroupID: "grant",
	Short:   "Grant a user access to a paid case",
	Long:    "Grants the given user access to a case. Granting is idempotent.",
	Args:    cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		userID, err := base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			return errors.Wrap(err, "decode user ID")
		}
		slug := args[1]

		db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		users := repositories.NewUserRepository(db, logger)
		exists, err := users.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.New("user not found")
		}

		c, err := repositories.NewCaseRepository(db, logger).GetBySlug(ctx, slug)
		if err != nil {
			return errors.Wrap(err, "resolve case", slog.String("slug", slug))
		}

		if err = repositories.NewEntitlementRepository(db, logger).Grant(ctx, userID, c.ID); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "granted %s to user\n", slug)
		return nil
	},
}
