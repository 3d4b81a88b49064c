package essaymodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"iga/internal/domain"
	"iga/internal/logger"
	"iga/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackModel tries the providers of one trait in order, skipping those
// whose circuit is open after a rate limit. It implements port.EssayModel.
type FallbackModel struct {
	trait    domain.Trait
	models   []port.EssayModel
	circuits []*circuitState
	names    []string
	log      *logger.Logger
	now      func() time.Time
}

// NewFallbackModel creates a FallbackModel for trait from an ordered list of
// models and their names.
func NewFallbackModel(trait domain.Trait, models []port.EssayModel, names []string, log *logger.Logger) *FallbackModel {
	if log == nil {
		log = logger.Nop()
	}
	circuits := make([]*circuitState, len(models))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackModel{
		trait:    trait,
		models:   models,
		circuits: circuits,
		names:    names,
		log:      log.With("trait", trait.String()),
		now:      time.Now,
	}
}

func (f *FallbackModel) Evaluate(ctx context.Context, text string) (float64, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, m := range f.models {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Debug("essaymodel.FallbackModel: skipping provider, circuit open",
				"provider", f.names[i], "reset_at", resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		score, err := m.Evaluate(ctx, text)
		if err == nil {
			return score, nil
		}

		f.log.Warn("essaymodel.FallbackModel: provider failed", "provider", f.names[i], "error", err)
		lastErr = err

		var rlErr *domain.RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return 0, domain.NewRateLimitError("all", fmt.Errorf("all %s model providers rate limited", f.trait), int(retryAfter.Seconds()))
	}

	return 0, fmt.Errorf("all %s model providers failed: %w", f.trait, lastErr)
}
