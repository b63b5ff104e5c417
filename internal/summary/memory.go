package summary

import (
	"context"
	"sync"
	"time"

	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/google/uuid"
)

type MemoryStore struct {
	mu        sync.RWMutex
	summaries []*models.Summary
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, in NewSummary) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := &models.Summary{
		ID:          uuid.New(),
		OwnerID:     in.OwnerID,
		SourceRef:   in.SourceRef,
		Text:        in.Text,
		DisplayName: in.DisplayName,
		FileName:    in.FileName,
		CreatedAt:   s.now().UTC(),
	}
	s.summaries = append(s.summaries, sum)
	return sum.ID, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID, requestingOwnerID string) (*models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sum := range s.summaries {
		if sum.ID == id && sum.OwnerID == requestingOwnerID {
			c := *sum
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// ListByOwner returns summaries in insertion order, which is creation order.
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Summary{}
	for _, sum := range s.summaries {
		if sum.OwnerID == ownerID {
			c := *sum
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}
