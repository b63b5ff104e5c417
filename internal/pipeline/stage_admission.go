package pipeline

import (
	"context"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logging"
)

type AdmissionStage struct {
	ledger *ledger.Ledger
}

func NewAdmissionStage(l *ledger.Ledger) *AdmissionStage {
	return &AdmissionStage{ledger: l}
}

func (s *AdmissionStage) Name() string {
	return StageAdmission
}

func (s *AdmissionStage) Run(ctx context.Context, doc *Document) error {
	if _, err := s.ledger.EnsureAccount(ctx, doc.Upload.OwnerID, doc.Upload.Emails); err != nil {
		return err
	}

	ok, err := s.ledger.HasCredit(ctx, doc.Upload.OwnerID)
	if err != nil {
		return err
	}

	acct, err := s.ledger.GetAccount(ctx, doc.Upload.OwnerID)
	if err != nil {
		return err
	}
	doc.Account = acct
	logging.EnrichAccount(ctx, string(acct.Plan), acct.CreditsUsed, acct.CreditsLimit)

	if !ok {
		return withKind(ErrCreditsExhausted, nil)
	}
	return nil
}
