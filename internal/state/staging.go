package state

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"outlai/internal/core"
	"outlai/internal/log"
)

// Creator is the one backend operation the staging area needs.
type Creator interface {
	Create(ctx context.Context, payload core.CreateExpense) (core.Expense, error)
}

// Staging holds draft expenses before a bulk save. Drafts exist only in
// memory; they are destroyed on save or explicit discard.
type Staging struct {
	mu      sync.Mutex
	creator Creator
	logger  *log.Logger
	drafts  []core.DraftExpense
}

func NewStaging(creator Creator, logger *log.Logger) *Staging {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStaging)
	}
	return &Staging{creator: creator, logger: logger}
}

// Add appends drafts to the staging area.
func (s *Staging) Add(drafts ...core.DraftExpense) {
	s.mu.Lock()
	s.drafts = append(s.drafts, drafts...)
	s.mu.Unlock()
}

// Remove drops the draft with the given temp ID. Returns false when no
// such draft is staged.
func (s *Staging) Remove(tempID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.drafts {
		if d.TempID == tempID {
			s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
			return true
		}
	}
	return false
}

// Drafts returns a copy of the staged drafts.
func (s *Staging) Drafts() []core.DraftExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.DraftExpense, len(s.drafts))
	copy(out, s.drafts)
	return out
}

// Clear discards every staged draft.
func (s *Staging) Clear() {
	s.mu.Lock()
	s.drafts = nil
	s.mu.Unlock()
}

// SaveAll fires one creation per staged draft concurrently and awaits
// them all. The batch succeeds only if every creation succeeds: any
// failure surfaces as one aggregate error and the items that did land
// stay persisted server-side, with no rollback. On success the staging
// area is cleared; on failure it is kept so the caller can retry or
// discard.
func (s *Staging) SaveAll(ctx context.Context) error {
	drafts := s.Drafts()
	if len(drafts) == 0 {
		return nil
	}

	// Plain group on purpose: a failing creation must not cancel its
	// siblings. Every staged draft gets its shot at the backend and the
	// batch fails as a whole afterwards.
	var g errgroup.Group
	for _, draft := range drafts {
		payload := draft.ToCreate()
		g.Go(func() error {
			if _, err := s.creator.Create(ctx, payload); err != nil {
				return fmt.Errorf("save %q: %w", payload.Description, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Bulk save failed",
			log.FieldOperation, log.OpSave,
			log.FieldDraftCount, len(drafts),
			log.FieldError, err.Error())
		return fmt.Errorf("save staged expenses: %w", err)
	}

	s.logger.InfoContext(ctx, "Bulk save succeeded",
		log.FieldOperation, log.OpSave,
		log.FieldDraftCount, len(drafts))
	s.Clear()
	return nil
}
