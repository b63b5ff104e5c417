package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/summary"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Recorder stores a finished summary and debits the owner's credit as one
// unit. When the debit is refused the summary is not kept.
type Recorder interface {
	Record(ctx context.Context, in summary.NewSummary) (uuid.UUID, error)
}

// BunRecorder writes the summary and the debit in one database transaction.
type BunRecorder struct {
	db     *bun.DB
	ledger *ledger.Ledger
}

func NewBunRecorder(db *bun.DB, l *ledger.Ledger) *BunRecorder {
	return &BunRecorder{db: db, ledger: l}
}

func (r *BunRecorder) Record(ctx context.Context, in summary.NewSummary) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		id, err = record(ctx, summary.NewBunStore(tx), r.ledger.WithRepository(ledger.NewBunRepository(tx)), in)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// LocalRecorder records against stores that have no transactions. Records
// are serialized in-process and credit is re-checked before the summary is
// written.
type LocalRecorder struct {
	mu        sync.Mutex
	summaries summary.Store
	ledger    *ledger.Ledger
}

func NewLocalRecorder(summaries summary.Store, l *ledger.Ledger) *LocalRecorder {
	return &LocalRecorder{summaries: summaries, ledger: l}
}

func (r *LocalRecorder) Record(ctx context.Context, in summary.NewSummary) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.ledger.HasCredit(ctx, in.OwnerID)
	if err != nil {
		return uuid.Nil, withStageKind(StageAccounting, ErrAccountingFailed, err)
	}
	if !ok {
		return uuid.Nil, withStageKind(StageAccounting, ErrCreditsExhausted, ledger.ErrCreditsExhausted)
	}
	return record(ctx, r.summaries, r.ledger, in)
}

func record(ctx context.Context, summaries summary.Store, l *ledger.Ledger, in summary.NewSummary) (uuid.UUID, error) {
	id, err := summaries.Create(ctx, in)
	if err != nil {
		return uuid.Nil, withStageKind(StagePersistence, ErrPersistenceFailed, err)
	}
	if err := l.ConsumeCredit(ctx, in.OwnerID); err != nil {
		if errors.Is(err, ledger.ErrCreditsExhausted) {
			return uuid.Nil, withStageKind(StageAccounting, ErrCreditsExhausted, err)
		}
		return uuid.Nil, withStageKind(StageAccounting, ErrAccountingFailed, err)
	}
	return id, nil
}
