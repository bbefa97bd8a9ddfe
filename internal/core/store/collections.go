package store

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
)

const (
	msgLoadCollections  = "Failed to load collections. Please try again."
	msgLoadCollection   = "Failed to load collection."
	msgCreateCollection = "Failed to create collection."
	msgDeleteCollection = "Failed to delete collection."
	msgAddToCollection  = "Failed to add link to collection."
	msgDuplicateInColl  = "Link already exists in this collection"
	msgRemoveFromColl   = "Failed to remove link from collection."
)

// CollectionState holds the collection list and the collection being viewed.
type CollectionState struct {
	Collections []domain.Collection
	Current     *domain.CollectionWithLinks
	IsLoading   bool
	Err         error
	Message     string
}

// Collections returns a copy of the collection slice.
func (s *Store) Collections() CollectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectionsSnapshotLocked()
}

func (s *Store) collectionsSnapshotLocked() CollectionState {
	st := s.collections
	st.Collections = append([]domain.Collection(nil), s.collections.Collections...)
	if st.Current != nil {
		cur := *st.Current
		cur.Links = append([]domain.Link(nil), cur.Links...)
		st.Current = &cur
	}
	return st
}

func (s *Store) updateCollections(fn func(*CollectionState)) {
	s.mu.Lock()
	fn(&s.collections)
	st := s.collectionsSnapshotLocked()
	s.mu.Unlock()
	s.emit(CollectionsChangedEvent{State: st})
}

func (s *Store) collectionsFailed(err error, msg string, fields logrus.Fields) {
	s.log.WithError(err).WithFields(fields).Error(msg)
	s.updateCollections(func(st *CollectionState) {
		st.IsLoading = false
		st.Err = err
		st.Message = msg
	})
}

func startLoading(st *CollectionState) {
	st.IsLoading = true
	st.Err = nil
	st.Message = ""
}

// FetchCollections loads the collection list.
func (s *Store) FetchCollections(ctx context.Context) error {
	s.updateCollections(startLoading)

	list, err := s.uc.GetCollections.Execute(ctx)
	if err != nil {
		s.collectionsFailed(err, msgLoadCollections, nil)
		return err
	}

	s.updateCollections(func(st *CollectionState) {
		st.IsLoading = false
		st.Collections = list
	})
	return nil
}

// FetchCollection loads one collection with its links as the current one.
func (s *Store) FetchCollection(ctx context.Context, id string) error {
	s.updateCollections(startLoading)

	detail, err := s.uc.GetCollection.Execute(ctx, id)
	if err != nil {
		s.collectionsFailed(err, msgLoadCollection, logrus.Fields{"collection_id": id})
		return err
	}

	s.updateCollections(func(st *CollectionState) {
		st.IsLoading = false
		st.Current = &detail
	})
	return nil
}

// CreateCollection creates a collection and reloads the list.
func (s *Store) CreateCollection(ctx context.Context, c domain.NewCollection) (domain.Collection, error) {
	s.updateCollections(startLoading)

	created, err := s.uc.CreateCollection.Execute(ctx, c)
	if err != nil {
		s.collectionsFailed(err, msgCreateCollection, logrus.Fields{"name": c.Name})
		return domain.Collection{}, err
	}
	return created, s.FetchCollections(ctx)
}

// DeleteCollection deletes a collection and reloads the list.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	s.updateCollections(startLoading)

	if err := s.uc.DeleteCollection.Execute(ctx, id); err != nil {
		s.collectionsFailed(err, msgDeleteCollection, logrus.Fields{"collection_id": id})
		return err
	}

	s.updateCollections(func(st *CollectionState) {
		if st.Current != nil && st.Current.Collection.ID == id {
			st.Current = nil
		}
	})
	return s.FetchCollections(ctx)
}

// AddLinkToCollection adds a link to a collection. When that collection is
// the current one its detail is reloaded.
func (s *Store) AddLinkToCollection(ctx context.Context, collectionID, linkID string) error {
	s.updateCollections(startLoading)

	if err := s.uc.AddLinkToCollection.Execute(ctx, collectionID, linkID); err != nil {
		msg := msgAddToCollection
		if api.StatusCode(err) == http.StatusConflict {
			msg = msgDuplicateInColl
		}
		s.collectionsFailed(err, msg, logrus.Fields{"collection_id": collectionID, "link_id": linkID})
		return err
	}

	s.mu.Lock()
	current := s.collections.Current != nil && s.collections.Current.Collection.ID == collectionID
	s.mu.Unlock()
	if current {
		return s.FetchCollection(ctx, collectionID)
	}
	s.updateCollections(func(st *CollectionState) { st.IsLoading = false })
	return nil
}

// RemoveLinkFromCollection removes a link and reloads the collection detail.
func (s *Store) RemoveLinkFromCollection(ctx context.Context, collectionID, linkID string) error {
	s.updateCollections(startLoading)

	if err := s.uc.RemoveLinkFromCollection.Execute(ctx, collectionID, linkID); err != nil {
		s.collectionsFailed(err, msgRemoveFromColl, logrus.Fields{"collection_id": collectionID, "link_id": linkID})
		return err
	}
	return s.FetchCollection(ctx, collectionID)
}
