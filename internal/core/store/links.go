package store

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
)

const (
	msgLoadLinks  = "Failed to load links. Please try again."
	msgUpdateLink = "Failed to update link."
	msgDeleteLink = "Failed to delete link."
)

// LinkState is the current page of links.
type LinkState struct {
	Links         []domain.Link
	TotalElements int
	TotalPages    int
	Request       domain.PageRequest
	IsLoading     bool
	Err           error
	Message       string
}

// Links returns a copy of the link slice.
func (s *Store) Links() LinkState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linksSnapshotLocked()
}

func (s *Store) linksSnapshotLocked() LinkState {
	st := s.links
	st.Links = append([]domain.Link(nil), s.links.Links...)
	return st
}

// CurrentRequest returns the page request the next fetch will use.
func (s *Store) CurrentRequest() domain.PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links.Request
}

func (s *Store) updateLinks(fn func(*LinkState)) {
	s.mu.Lock()
	fn(&s.links)
	st := s.linksSnapshotLocked()
	s.mu.Unlock()
	s.emit(LinksChangedEvent{State: st})
}

// FetchLinks loads the page described by req and remembers req.
func (s *Store) FetchLinks(ctx context.Context, req domain.PageRequest) error {
	req.SortDirection = domain.NormalizeSortDirection(req.SortDirection)
	s.updateLinks(func(st *LinkState) {
		st.Request = req
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
	})

	page, err := s.uc.GetLinks.Execute(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("page", req.Page).Error("failed to fetch links")
		s.updateLinks(func(st *LinkState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msgLoadLinks
		})
		return err
	}

	s.updateLinks(func(st *LinkState) {
		st.IsLoading = false
		st.Links = page.Content
		st.TotalElements = page.TotalElements
		st.TotalPages = page.TotalPages
	})
	return nil
}

// SetPage fetches page n of the current listing.
func (s *Store) SetPage(ctx context.Context, n int) error {
	req := s.CurrentRequest()
	req.Page = n
	return s.FetchLinks(ctx, req)
}

// SetPageSize changes the page size and goes back to the first page.
func (s *Store) SetPageSize(ctx context.Context, size int) error {
	req := s.CurrentRequest()
	req.Size = size
	req.Page = 0
	return s.FetchLinks(ctx, req)
}

// SetSort changes the ordering and goes back to the first page.
func (s *Store) SetSort(ctx context.Context, sortBy, direction string) error {
	req := s.CurrentRequest()
	req.SortBy = sortBy
	req.SortDirection = direction
	req.Page = 0
	return s.FetchLinks(ctx, req)
}

// AddLink creates a link. The in-memory page is not changed.
func (s *Store) AddLink(ctx context.Context, link domain.NewLink) (domain.Link, error) {
	s.updateLinks(func(st *LinkState) {
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
	})

	created, err := s.uc.AddLink.Execute(ctx, link)
	if err != nil {
		msg := AddLinkMessage(err)
		s.log.WithError(err).WithField("url", link.URL).Error("failed to add link")
		s.updateLinks(func(st *LinkState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msg
		})
		return domain.Link{}, err
	}

	// The loaded page is left as the backend paged it; a fetch picks the
	// new link up in sort order.
	s.updateLinks(func(st *LinkState) { st.IsLoading = false })
	return created, nil
}

// AddLinkMessage chooses the text shown when creating a link fails.
func AddLinkMessage(err error) string {
	status := api.StatusCode(err)
	switch {
	case status == http.StatusConflict:
		return "This URL already exists"
	case api.Message(err) != "":
		return api.Message(err)
	case status == http.StatusBadRequest:
		return "Invalid link data. Please check your input."
	case status >= 500:
		return "Server error. Please try again later."
	case api.IsNetwork(err):
		return "Unable to connect to server. Please check your connection."
	default:
		return "Failed to add link"
	}
}

// UpdateLink edits a link and replaces it in the in-memory list.
func (s *Store) UpdateLink(ctx context.Context, id string, update domain.LinkUpdate) (domain.Link, error) {
	updated, err := s.uc.UpdateLink.Execute(ctx, id, update)
	if err != nil {
		s.log.WithError(err).WithField("link_id", id).Error("failed to update link")
		s.updateLinks(func(st *LinkState) {
			st.Err = err
			st.Message = msgUpdateLink
		})
		return domain.Link{}, err
	}

	s.updateLinks(func(st *LinkState) {
		for i := range st.Links {
			if st.Links[i].ID == id {
				st.Links[i] = updated
			}
		}
	})
	return updated, nil
}

// DeleteLink deletes a link and drops it from the in-memory list without
// fetching the page again.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	if err := s.uc.DeleteLink.Execute(ctx, id); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"link_id": id}).Error("failed to delete link")
		s.updateLinks(func(st *LinkState) {
			st.Err = err
			st.Message = msgDeleteLink
		})
		return err
	}

	s.updateLinks(func(st *LinkState) {
		kept := st.Links[:0]
		removed := false
		for _, l := range st.Links {
			if l.ID == id {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		st.Links = kept
		if removed && st.TotalElements > 0 {
			st.TotalElements--
		}
	})
	return nil
}
