package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Suraj182004/saaraansh/internal/models"
)

// MemoryRepository is an in-process Repository with the same uniqueness and
// atomicity guarantees as the Postgres schema.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]*models.Account)}
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(acct), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *MemoryRepository) GetByBillingCustomerRef(_ context.Context, customerRef string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.CustomerRef() == customerRef })
}

func (r *MemoryRepository) GetByBillingSubscriptionRef(_ context.Context, subscriptionRef string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.SubscriptionRef() == subscriptionRef })
}

func (r *MemoryRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acct := range r.accounts {
		if match(acct) {
			return cloneAccount(acct), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) CreateIfNotExists(_ context.Context, acct *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acct.ID]; ok {
		return nil
	}
	for _, other := range r.accounts {
		if other.Email == acct.Email {
			return ErrEmailTaken
		}
	}
	r.accounts[acct.ID] = cloneAccount(acct)
	return nil
}

func (r *MemoryRepository) ResetIfDue(_ context.Context, id string, now, nextReset time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	if acct.NextResetDate != nil && acct.NextResetDate.After(now) {
		return false, nil
	}
	acct.CreditsUsed = 0
	acct.LastResetDate = &now
	acct.NextResetDate = &nextReset
	acct.UpdatedAt = now
	return true, nil
}

func (r *MemoryRepository) IncrementCreditsUsed(_ context.Context, id string, now time.Time) error {
	return r.mutate(id, func(a *models.Account) error {
		if a.Plan != models.PlanPro && a.CreditsUsed >= a.CreditsLimit {
			return ErrCreditsExhausted
		}
		a.CreditsUsed++
		a.UpdatedAt = now
		return nil
	})
}

func (r *MemoryRepository) SetPlan(_ context.Context, id string, change PlanChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if ref := change.Refs.CustomerRef; ref != "" && r.customerRefOwnedByOtherLocked(id, ref) {
		return ErrCustomerRefTaken
	}
	acct.Plan = change.Plan
	acct.CreditsUsed = 0
	acct.CreditsLimit = change.Limit
	acct.LastResetDate = &change.ResetAt
	acct.NextResetDate = &change.NextReset
	acct.UpdatedAt = change.ResetAt
	if ref := change.Refs.CustomerRef; ref != "" {
		acct.BillingCustomerRef = &ref
	}
	if ref := change.Refs.SubscriptionRef; ref != "" {
		acct.BillingSubscriptionRef = &ref
	}
	return nil
}

func (r *MemoryRepository) SetSubscriptionStatus(_ context.Context, id string, status models.SubscriptionStatus, now time.Time) error {
	return r.mutate(id, func(a *models.Account) error {
		a.SubscriptionStatus = status
		a.UpdatedAt = now
		return nil
	})
}

func (r *MemoryRepository) BindBillingCustomerRef(_ context.Context, id, customerRef string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if acct.BillingCustomerRef != nil {
		if *acct.BillingCustomerRef != customerRef {
			return ErrCustomerRefTaken
		}
		return nil
	}
	if r.customerRefOwnedByOtherLocked(id, customerRef) {
		return ErrCustomerRefTaken
	}
	acct.BillingCustomerRef = &customerRef
	acct.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) customerRefOwnedByOtherLocked(id, customerRef string) bool {
	for otherID, other := range r.accounts {
		if otherID != id && other.CustomerRef() == customerRef {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) mutate(id string, fn func(*models.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	return fn(acct)
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	if a.LastResetDate != nil {
		t := *a.LastResetDate
		c.LastResetDate = &t
	}
	if a.NextResetDate != nil {
		t := *a.NextResetDate
		c.NextResetDate = &t
	}
	if a.BillingCustomerRef != nil {
		s := *a.BillingCustomerRef
		c.BillingCustomerRef = &s
	}
	if a.BillingSubscriptionRef != nil {
		s := *a.BillingSubscriptionRef
		c.BillingSubscriptionRef = &s
	}
	return &c
}
