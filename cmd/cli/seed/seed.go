// Package seed loads case bundles into the content store.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/specter/internal/casebundle"
	"github.com/myrjola/specter/internal/repositories"
	"github.com/myrjola/specter/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "seed",
	Title: "Content seeding",
}

var (
	bundlePath string
	sqliteURL  string
)

func init() {
	Cases.Flags().StringVar(&bundlePath, "bundle", "./cases.json", "Path to the case bundle JSON file")
	Cases.Flags().StringVar(&sqliteURL, "sqlite-url", "./specter.sqlite", "SQLite URL")
}

var Cases = &cobra.Command{
	Use:     "seed-cases",
	GroupID: "seed",
	Short:   "Seed cases from a bundle",
	Long:    "Loads a JSON case bundle and upserts its cases, evidence, and hints into the database",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		bundle, err := casebundle.Load(bundlePath)
		if err != nil {
			return err
		}
		if err = casebundle.Apply(ctx, bundle, repositories.NewCaseRepository(db, logger)); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "seeded %d cases from %s\n", len(bundle.Cases), bundlePath)
		return nil
	},
}
