package app

import (
	"sync"
	"time"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
)

// ChangeTracker flags opportunities whose id was absent from the previous result.
type ChangeTracker struct {
	highlight time.Duration

	mu   sync.Mutex
	prev map[string]time.Time // id -> highlight deadline
}

// NewChangeTracker creates a tracker. New rows stay highlighted for highlight.
func NewChangeTracker(highlight time.Duration) *ChangeTracker {
	return &ChangeTracker{highlight: highlight, prev: map[string]time.Time{}}
}

// Mark returns a copy of opps with IsNew and HighlightUntil set, then replaces
// the previous id set with the ids of opps.
func (t *ChangeTracker) Mark(opps []domain.Opportunity, now time.Time) []domain.Opportunity {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.Opportunity, len(opps))
	next := make(map[string]time.Time, len(opps))
	for i, o := range opps {
		if until, seen := t.prev[o.ID]; seen {
			o.IsNew = false
			o.HighlightUntil = until
		} else {
			o.IsNew = true
			o.HighlightUntil = now.Add(t.highlight)
		}
		next[o.ID] = o.HighlightUntil
		out[i] = o
	}
	t.prev = next
	return out
}
