package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

const (
	msgLoadContent    = "Failed to load content."
	msgRefreshContent = "Failed to refresh content."
	msgDeleteContent  = "Failed to delete content."
)

// ContentState is the content currently being viewed. Data is nil until a
// fetch succeeds.
type ContentState struct {
	LinkID    string
	Data      *domain.Content
	IsLoading bool
	Err       error
	Message   string
}

// Content returns a copy of the content slice.
func (s *Store) Content() ContentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentSnapshotLocked()
}

func (s *Store) contentSnapshotLocked() ContentState {
	st := s.content
	if st.Data != nil {
		c := *st.Data
		st.Data = &c
	}
	return st
}

// beginContent makes linkID the current target and returns the sequence
// number that a result must still carry to be applied.
func (s *Store) beginContent(linkID string) uint64 {
	s.mu.Lock()
	if s.contentTarget != linkID {
		s.content.Data = nil
	}
	s.contentTarget = linkID
	s.contentSeq++
	seq := s.contentSeq
	s.content.LinkID = linkID
	s.content.IsLoading = true
	s.content.Err = nil
	s.content.Message = ""
	st := s.contentSnapshotLocked()
	s.mu.Unlock()

	s.emit(ContentChangedEvent{State: st})
	return seq
}

func (s *Store) currentLocked(linkID string, seq uint64) bool {
	return s.contentTarget == linkID && s.contentSeq == seq
}

// finishContent applies the outcome of a content request unless a newer
// request or a different link has taken over since it started.
func (s *Store) finishContent(linkID string, seq uint64, apply func(*ContentState), err error, msg string) {
	log := s.log.WithFields(logrus.Fields{"link_id": linkID, "seq": seq})

	s.mu.Lock()
	if !s.currentLocked(linkID, seq) {
		s.mu.Unlock()
		log.Debug("discarding stale content response")
		return
	}
	s.content.IsLoading = false
	if err != nil {
		s.content.Err = err
		s.content.Message = msg
	} else if apply != nil {
		apply(&s.content)
	}
	st := s.contentSnapshotLocked()
	s.mu.Unlock()

	if err != nil {
		log.WithError(err).Error(msg)
	}
	s.emit(ContentChangedEvent{State: st})
}

// GetContent fetches the content of linkID and makes it the viewed content.
func (s *Store) GetContent(ctx context.Context, linkID string) error {
	seq := s.beginContent(linkID)
	content, err := s.uc.GetContent.Execute(ctx, linkID)
	s.finishContent(linkID, seq, func(st *ContentState) { st.Data = &content }, err, msgLoadContent)
	return err
}

// RefreshContent asks the backend to re-extract linkID and then fetches the
// content again to pick up its new, possibly still pending, status.
func (s *Store) RefreshContent(ctx context.Context, linkID string) error {
	seq := s.beginContent(linkID)
	if err := s.uc.RefreshContent.Execute(ctx, linkID); err != nil {
		s.finishContent(linkID, seq, nil, err, msgRefreshContent)
		return err
	}

	s.mu.Lock()
	current := s.currentLocked(linkID, seq)
	s.mu.Unlock()
	if !current {
		return nil
	}
	return s.GetContent(ctx, linkID)
}

// DeleteContent removes the content of linkID and clears the viewed content.
func (s *Store) DeleteContent(ctx context.Context, linkID string) error {
	seq := s.beginContent(linkID)
	err := s.uc.DeleteContent.Execute(ctx, linkID)
	s.finishContent(linkID, seq, func(st *ContentState) { st.Data = nil }, err, msgDeleteContent)
	return err
}

// ClearContent drops the viewed content and invalidates in-flight requests.
func (s *Store) ClearContent() {
	s.mu.Lock()
	s.contentTarget = ""
	s.contentSeq++
	s.content = ContentState{}
	st := s.contentSnapshotLocked()
	s.mu.Unlock()

	s.emit(ContentChangedEvent{State: st})
}
