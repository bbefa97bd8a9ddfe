package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/repository/mocks"
)

func newMockContainer(t *testing.T) (*Container, *mocks.MockLinkRepository, *mocks.MockContentRepository, *mocks.MockCollectionRepository, *mocks.MockAuthRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	links := mocks.NewMockLinkRepository(ctrl)
	content := mocks.NewMockContentRepository(ctrl)
	cols := mocks.NewMockCollectionRepository(ctrl)
	auth := mocks.NewMockAuthRepository(ctrl)
	return NewContainer(Repositories{Links: links, Content: content, Collections: cols, Auth: auth}), links, content, cols, auth
}

func TestGetContentDelegates(t *testing.T) {
	c, _, content, _, _ := newMockContainer(t)
	ctx := context.Background()
	want := domain.Content{ID: "c1", LinkID: "l1", Status: domain.StatusCompleted}
	content.EXPECT().Get(ctx, "l1").Return(want, nil)

	got, err := c.GetContent.Execute(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	c, links, content, cols, auth := newMockContainer(t)
	ctx := context.Background()
	httpErr := &api.HTTPError{StatusCode: 409, Body: []byte(`{"message":"dup"}`), Message: "dup"}

	links.EXPECT().Create(ctx, gomock.Any()).Return(domain.Link{}, httpErr)
	content.EXPECT().Refresh(ctx, "l1").Return(httpErr)
	cols.EXPECT().AddLink(ctx, "c1", "l1").Return(httpErr)
	auth.EXPECT().Logout(ctx).Return(httpErr)

	_, err := c.AddLink.Execute(ctx, domain.NewLink{URL: "https://x.example"})
	assert.Same(t, httpErr, err)
	assert.Same(t, httpErr, c.RefreshContent.Execute(ctx, "l1"))
	assert.Same(t, httpErr, c.AddLinkToCollection.Execute(ctx, "c1", "l1"))
	assert.Same(t, httpErr, c.Logout.Execute(ctx))
}

func TestNoValidationInUseCases(t *testing.T) {
	c, links, _, _, _ := newMockContainer(t)
	ctx := context.Background()
	invalid := domain.NewLink{URL: "invalid-url"}
	links.EXPECT().Create(ctx, invalid).Return(domain.Link{}, errors.New("rejected upstream"))

	_, err := c.AddLink.Execute(ctx, invalid)
	assert.EqualError(t, err, "rejected upstream")
}

func TestCollectionUseCases(t *testing.T) {
	c, _, _, cols, _ := newMockContainer(t)
	ctx := context.Background()

	gomock.InOrder(
		cols.EXPECT().Create(ctx, domain.NewCollection{Name: "Reading"}).Return(domain.Collection{ID: "c1", Name: "Reading"}, nil),
		cols.EXPECT().List(ctx).Return([]domain.Collection{{ID: "c1", Name: "Reading"}}, nil),
		cols.EXPECT().RemoveLink(ctx, "c1", "l1").Return(nil),
		cols.EXPECT().Delete(ctx, "c1").Return(nil),
	)

	created, err := c.CreateCollection.Execute(ctx, domain.NewCollection{Name: "Reading"})
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ID)

	list, err := c.GetCollections.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.RemoveLinkFromCollection.Execute(ctx, "c1", "l1"))
	require.NoError(t, c.DeleteCollection.Execute(ctx, "c1"))
}
