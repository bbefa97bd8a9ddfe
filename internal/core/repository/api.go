package repository

import (
	"context"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
)

// Compile-time checks.
var (
	_ LinkRepository       = (*APILinks)(nil)
	_ ContentRepository    = (*APIContent)(nil)
	_ CollectionRepository = (*APICollections)(nil)
	_ AuthRepository       = (*APIAuth)(nil)
)

// APILinks implements LinkRepository over the API client.
type APILinks struct{ c *api.Client }

// NewAPILinks returns a LinkRepository backed by c.
func NewAPILinks(c *api.Client) *APILinks { return &APILinks{c: c} }

func (r *APILinks) Create(ctx context.Context, link domain.NewLink) (domain.Link, error) {
	return r.c.CreateLink(ctx, link)
}

func (r *APILinks) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Link], error) {
	return r.c.ListLinks(ctx, req)
}

func (r *APILinks) Update(ctx context.Context, id string, update domain.LinkUpdate) (domain.Link, error) {
	return r.c.UpdateLink(ctx, id, update)
}

func (r *APILinks) Delete(ctx context.Context, id string) error {
	return r.c.DeleteLink(ctx, id)
}

func (r *APILinks) Related(ctx context.Context, id string) ([]domain.Link, error) {
	return r.c.RelatedLinks(ctx, id)
}

func (r *APILinks) Graph(ctx context.Context) (domain.GraphData, error) {
	return r.c.Graph(ctx)
}

// APIContent implements ContentRepository over the API client.
type APIContent struct{ c *api.Client }

// NewAPIContent returns a ContentRepository backed by c.
func NewAPIContent(c *api.Client) *APIContent { return &APIContent{c: c} }

func (r *APIContent) Get(ctx context.Context, linkID string) (domain.Content, error) {
	return r.c.GetContent(ctx, linkID)
}

func (r *APIContent) Refresh(ctx context.Context, linkID string) error {
	return r.c.RefreshContent(ctx, linkID)
}

func (r *APIContent) Delete(ctx context.Context, linkID string) error {
	return r.c.DeleteContent(ctx, linkID)
}

func (r *APIContent) Search(ctx context.Context, query string, limit int) ([]domain.Content, error) {
	return r.c.Search(ctx, query, limit)
}

func (r *APIContent) BackfillEmbeddings(ctx context.Context) (string, error) {
	return r.c.BackfillEmbeddings(ctx)
}

// APICollections implements CollectionRepository over the API client.
type APICollections struct{ c *api.Client }

// NewAPICollections returns a CollectionRepository backed by c.
func NewAPICollections(c *api.Client) *APICollections { return &APICollections{c: c} }

func (r *APICollections) List(ctx context.Context) ([]domain.Collection, error) {
	return r.c.ListCollections(ctx)
}

func (r *APICollections) Get(ctx context.Context, id string) (domain.CollectionWithLinks, error) {
	return r.c.GetCollection(ctx, id)
}

func (r *APICollections) Create(ctx context.Context, c domain.NewCollection) (domain.Collection, error) {
	return r.c.CreateCollection(ctx, c)
}

func (r *APICollections) Delete(ctx context.Context, id string) error {
	return r.c.DeleteCollection(ctx, id)
}

func (r *APICollections) AddLink(ctx context.Context, collectionID, linkID string) error {
	return r.c.AddLinkToCollection(ctx, collectionID, linkID)
}

func (r *APICollections) RemoveLink(ctx context.Context, collectionID, linkID string) error {
	return r.c.RemoveLinkFromCollection(ctx, collectionID, linkID)
}

// APIAuth implements AuthRepository over the API client.
type APIAuth struct{ c *api.Client }

// NewAPIAuth returns an AuthRepository backed by c.
func NewAPIAuth(c *api.Client) *APIAuth { return &APIAuth{c: c} }

func (r *APIAuth) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	return r.c.Login(ctx, creds)
}

func (r *APIAuth) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	return r.c.Register(ctx, reg)
}

func (r *APIAuth) Logout(ctx context.Context) error {
	return r.c.Logout(ctx)
}

func (r *APIAuth) Refresh(ctx context.Context) error {
	return r.c.Refresh(ctx)
}
