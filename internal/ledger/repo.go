package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BillingRefs carries optional billing-provider references. Empty fields are
// never written.
type BillingRefs struct {
	CustomerRef     string
	SubscriptionRef string
}

// PlanChange is the full set of columns written by a plan transition.
type PlanChange struct {
	Plan      models.Plan
	Limit     int
	Refs      BillingRefs
	ResetAt   time.Time
	NextReset time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByBillingCustomerRef(ctx context.Context, customerRef string) (*models.Account, error)
	GetByBillingSubscriptionRef(ctx context.Context, subscriptionRef string) (*models.Account, error)
	CreateIfNotExists(ctx context.Context, acct *models.Account) error
	ResetIfDue(ctx context.Context, id string, now, nextReset time.Time) (bool, error)
	IncrementCreditsUsed(ctx context.Context, id string, now time.Time) error
	SetPlan(ctx context.Context, id string, change PlanChange) error
	SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus, now time.Time) error
	BindBillingCustomerRef(ctx context.Context, id, customerRef string, now time.Time) error
}

type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getWhere(ctx, "lower(email) = lower(?)", email)
}

func (r *BunRepository) GetByBillingCustomerRef(ctx context.Context, customerRef string) (*models.Account, error) {
	return r.getWhere(ctx, "billing_customer_ref = ?", customerRef)
}

func (r *BunRepository) GetByBillingSubscriptionRef(ctx context.Context, subscriptionRef string) (*models.Account, error) {
	return r.getWhere(ctx, "billing_subscription_ref = ?", subscriptionRef)
}

func (r *BunRepository) getWhere(ctx context.Context, query string, arg any) (*models.Account, error) {
	row := new(models.AccountDB)
	err := r.db.NewSelect().
		Model(row).
		Where(query, arg).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToAccount(), nil
}

// CreateIfNotExists inserts acct unless a row with the same id exists. The
// caller re-reads to learn which insert won. An email already held by a
// different id is ErrEmailTaken.
func (r *BunRepository) CreateIfNotExists(ctx context.Context, acct *models.Account) error {
	_, err := r.db.NewInsert().
		Model(models.AccountFromDomain(acct)).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err == nil || !isIntegrityViolation(err) {
		return err
	}

	// A concurrent insert of the same id can trip the email constraint
	// before the id conflict is seen.
	if _, getErr := r.GetByID(ctx, acct.ID); getErr == nil {
		return nil
	}
	return ErrEmailTaken
}

func (r *BunRepository) ResetIfDue(ctx context.Context, id string, now, nextReset time.Time) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("credits_used = 0").
		Set("last_reset_date = ?", now).
		Set("next_reset_date = ?", nextReset).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("next_reset_date IS NULL").WhereOr("next_reset_date <= ?", now)
		}).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementCreditsUsed debits one credit unless a non-pro account is already
// at its limit. The limit check and the increment are one statement.
func (r *BunRepository) IncrementCreditsUsed(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("credits_used = credits_used + 1").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("plan = ?", models.PlanPro).WhereOr("credits_used < credits_limit")
		}).
		Exec(ctx)
	err = requireRow(res, err)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return getErr
	}
	return ErrCreditsExhausted
}

func (r *BunRepository) SetPlan(ctx context.Context, id string, change PlanChange) error {
	q := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("plan = ?", change.Plan).
		Set("credits_used = 0").
		Set("credits_limit = ?", change.Limit).
		Set("last_reset_date = ?", change.ResetAt).
		Set("next_reset_date = ?", change.NextReset).
		Set("updated_at = ?", change.ResetAt).
		Where("id = ?", id)
	if change.Refs.CustomerRef != "" {
		q = q.Set("billing_customer_ref = ?", change.Refs.CustomerRef)
	}
	if change.Refs.SubscriptionRef != "" {
		q = q.Set("billing_subscription_ref = ?", change.Refs.SubscriptionRef)
	}
	res, err := q.Exec(ctx)
	return requireRow(res, mapIntegrityError(err))
}

func (r *BunRepository) SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus, now time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("subscription_status = ?", status).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	return requireRow(res, err)
}

// BindBillingCustomerRef sets the customer ref only while it is still NULL, so
// replays and concurrent binders cannot replace an existing ref.
func (r *BunRepository) BindBillingCustomerRef(ctx context.Context, id, customerRef string, now time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*models.AccountDB)(nil)).
		Set("billing_customer_ref = ?", customerRef).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("billing_customer_ref IS NULL").
		Exec(ctx)
	if err != nil {
		return mapIntegrityError(err)
	}

	acct, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acct.CustomerRef() != customerRef {
		return ErrCustomerRefTaken
	}
	return nil
}

func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isIntegrityViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
}

func mapIntegrityError(err error) error {
	if isIntegrityViolation(err) {
		return ErrCustomerRefTaken
	}
	return err
}
