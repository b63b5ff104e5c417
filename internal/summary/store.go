// Package summary persists generated summaries. Reads are always scoped to
// the owning account.
package summary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("summary: not found")

type NewSummary struct {
	OwnerID     string
	SourceRef   string
	Text        string
	DisplayName string
	FileName    string
}

type Store interface {
	Create(ctx context.Context, s NewSummary) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID, requestingOwnerID string) (*models.Summary, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Summary, error)
}

type BunStore struct {
	db bun.IDB
}

func NewBunStore(db bun.IDB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Create(ctx context.Context, in NewSummary) (uuid.UUID, error) {
	row := models.SummaryFromDomain(&models.Summary{
		ID:          uuid.New(),
		OwnerID:     in.OwnerID,
		SourceRef:   in.SourceRef,
		Text:        in.Text,
		DisplayName: in.DisplayName,
		FileName:    in.FileName,
		CreatedAt:   time.Now().UTC(),
	})
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert summary: %w", err)
	}
	return row.ID, nil
}

// GetByID treats a summary owned by someone else exactly like a missing one.
func (s *BunStore) GetByID(ctx context.Context, id uuid.UUID, requestingOwnerID string) (*models.Summary, error) {
	row := new(models.SummaryDB)
	err := s.db.NewSelect().
		Model(row).
		Where("s.id = ?", id).
		Where("s.owner_id = ?", requestingOwnerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return row.ToSummary(), nil
}

// ListByOwner returns summaries oldest first.
func (s *BunStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Summary, error) {
	var rows []*models.SummaryDB
	err := s.db.NewSelect().
		Model(&rows).
		Where("s.owner_id = ?", ownerID).
		Order("s.created_at ASC", "s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	summaries := make([]*models.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.ToSummary())
	}
	return summaries, nil
}
