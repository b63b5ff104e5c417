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
			Model((*models.AccountDB)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create accounts table: %w", err)
		}

		_, err = db.NewCreateIndex().
			Model((*models.AccountDB)(nil)).
			Index("idx_accounts_billing_subscription_ref").
			Column("billing_subscription_ref").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create subscription ref index: %w", err)
		}

		_, err = db.NewCreateIndex().
			Model((*models.AccountDB)(nil)).
			Index("idx_accounts_email_lower").
			ColumnExpr("lower(email)").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create email index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*models.AccountDB)(nil)).
			IfExists().
			Cascade().
			Exec(ctx)
		return err
	})
}
