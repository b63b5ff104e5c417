package services

import (
	"context"
	"sync"

	"github.com/Suraj182004/saaraansh/internal/logging"
)

type IUsageTracker interface {
	AddTokenUsage(ctx context.Context, model string, tknIn, tknOut int)
	Totals() (tknIn, tknOut int)
}

// UsageTracker accumulates model token usage for the process and records the
// usage of each call on the request's wide event.
type UsageTracker struct {
	mu      sync.RWMutex
	tknIn   int
	tknOut  int
	byModel map[string]int
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{byModel: make(map[string]int)}
}

func (u *UsageTracker) AddTokenUsage(ctx context.Context, model string, tknIn, tknOut int) {
	u.mu.Lock()
	u.tknIn += tknIn
	u.tknOut += tknOut
	u.byModel[model] += tknIn + tknOut
	u.mu.Unlock()

	logging.EnrichMetadata(ctx, "tokens_in", tknIn)
	logging.EnrichMetadata(ctx, "tokens_out", tknOut)
}

func (u *UsageTracker) Totals() (int, int) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.tknIn, u.tknOut
}

func (u *UsageTracker) ModelTokens(model string) int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.byModel[model]
}
