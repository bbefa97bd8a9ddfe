// Package viewer turns the content slice of the store into something to
// look at: a Watcher bound to the selected link, the derived view state, and
// text and HTML renderings of it.
package viewer

import (
	"context"
	"sync"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/store"
)

// Snapshot is the Watcher's view of the selected link's content.
type Snapshot struct {
	LinkID    string
	Data      *domain.Content
	IsLoading bool
	Err       error
	Message   string
}

// Watcher keeps the store's content slice in step with one selected link.
// It never retries on its own; failures stay in Snapshot().Err until the
// caller acts.
type Watcher struct {
	store *store.Store

	mu     sync.Mutex
	linkID string
}

// NewWatcher returns a Watcher with no link selected.
func NewWatcher(s *store.Store) *Watcher {
	return &Watcher{store: s}
}

// LinkID returns the selected link id, or "" when none is selected.
func (w *Watcher) LinkID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.linkID
}

// SetLinkID selects id and fetches its content. Selecting the link that is
// already selected does nothing. An empty id clears the content without
// fetching.
func (w *Watcher) SetLinkID(ctx context.Context, id string) error {
	w.mu.Lock()
	if id == w.linkID {
		w.mu.Unlock()
		return nil
	}
	w.linkID = id
	w.mu.Unlock()

	if id == "" {
		w.store.ClearContent()
		return nil
	}
	return w.store.GetContent(ctx, id)
}

// Refetch fetches the content of the selected link again.
func (w *Watcher) Refetch(ctx context.Context) error {
	id := w.LinkID()
	if id == "" {
		return nil
	}
	return w.store.GetContent(ctx, id)
}

// RefreshContent asks the backend to re-extract the selected link.
func (w *Watcher) RefreshContent(ctx context.Context) error {
	id := w.LinkID()
	if id == "" {
		return nil
	}
	return w.store.RefreshContent(ctx, id)
}

// Snapshot returns the content state of the selected link.
func (w *Watcher) Snapshot() Snapshot {
	id := w.LinkID()
	if id == "" {
		return Snapshot{}
	}
	st := w.store.Content()
	if st.LinkID != id {
		return Snapshot{LinkID: id}
	}
	return Snapshot{
		LinkID:    id,
		Data:      st.Data,
		IsLoading: st.IsLoading,
		Err:       st.Err,
		Message:   st.Message,
	}
}
