package migrations

import (
	"context"
	"fmt"

	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*models.SummaryDB)(nil)).
			IfNotExists().
			ForeignKey(`("owner_id") REFERENCES "accounts" ("id")`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create summaries table: %w", err)
		}

		_, err = db.NewCreateIndex().
			Model((*models.SummaryDB)(nil)).
			Index("idx_summaries_owner_created").
			Column("owner_id", "created_at").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create owner index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*models.SummaryDB)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
