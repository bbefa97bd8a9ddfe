package store

import (
	"context"
	"strings"

	"github.com/seckatie/linklift/internal/core/domain"
)

// DefaultSearchLimit is used when Search is called with a non-positive limit.
const DefaultSearchLimit = 10

const (
	msgSearch   = "Search failed. Please try again."
	msgBackfill = "Failed to start backfill process."
)

// SearchState holds the last search and the backfill acknowledgement.
type SearchState struct {
	Query           string
	Results         []domain.Content
	IsLoading       bool
	Err             error
	Message         string
	BackfillMessage string
}

// SearchResults returns a copy of the search slice.
func (s *Store) SearchResults() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchSnapshotLocked()
}

func (s *Store) searchSnapshotLocked() SearchState {
	st := s.search
	st.Results = append([]domain.Content(nil), s.search.Results...)
	return st
}

func (s *Store) updateSearch(fn func(*SearchState)) {
	s.mu.Lock()
	fn(&s.search)
	st := s.searchSnapshotLocked()
	s.mu.Unlock()
	s.emit(SearchChangedEvent{State: st})
}

// Search searches stored content. A blank query clears the results without
// calling the backend.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.Content, error) {
	if strings.TrimSpace(query) == "" {
		s.updateSearch(func(st *SearchState) {
			st.Query = query
			st.Results = nil
			st.Err = nil
			st.Message = ""
		})
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	s.updateSearch(func(st *SearchState) {
		st.Query = query
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
	})

	results, err := s.uc.SearchContent.Execute(ctx, query, limit)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Error("search failed")
		s.updateSearch(func(st *SearchState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msgSearch
		})
		return nil, err
	}

	s.updateSearch(func(st *SearchState) {
		st.IsLoading = false
		st.Results = results
	})
	return results, nil
}

// BackfillEmbeddings starts the backend backfill job and stores its reply.
func (s *Store) BackfillEmbeddings(ctx context.Context) (string, error) {
	s.updateSearch(func(st *SearchState) {
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
		st.BackfillMessage = ""
	})

	msg, err := s.uc.BackfillEmbeddings.Execute(ctx)
	if err != nil {
		s.log.WithError(err).Error("backfill failed")
		s.updateSearch(func(st *SearchState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msgBackfill
		})
		return "", err
	}

	s.updateSearch(func(st *SearchState) {
		st.IsLoading = false
		st.BackfillMessage = msg
	})
	return msg, nil
}
