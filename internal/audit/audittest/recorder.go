// Package audittest captures audit entries in memory.
package audittest

import (
	"context"
	"sync"

	"github.com/smallbiznis/estate/internal/audit/domain"
)

type Recorder struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func (r *Recorder) Record(_ context.Context, entry domain.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *Recorder) Entries() []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Entry(nil), r.entries...)
}

// Actions lists the recorded actions in order.
func (r *Recorder) Actions() []string {
	entries := r.Entries()
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

var _ domain.Logger = (*Recorder)(nil)
