package ledger

import "errors"

var (
	ErrNotFound            = errors.New("ledger: account not found")
	ErrIdentityUnavailable = errors.New("ledger: no verified email for identity")
	ErrLedgerUnavailable   = errors.New("ledger: unavailable")
	ErrCustomerRefTaken    = errors.New("ledger: billing customer ref conflict")
	ErrUnknownPlan         = errors.New("ledger: unknown plan")
	ErrCreditsExhausted    = errors.New("ledger: credits exhausted")
	ErrEmailTaken          = errors.New("ledger: email belongs to another account")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
