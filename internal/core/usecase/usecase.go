// Package usecase holds single-operation adapters between the store and the
// repositories. Use-cases only delegate: they never validate and never wrap
// or swallow errors.
package usecase

import (
	"context"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/repository"
)

type GetContent struct{ Repo repository.ContentRepository }

func (u GetContent) Execute(ctx context.Context, linkID string) (domain.Content, error) {
	return u.Repo.Get(ctx, linkID)
}

type RefreshContent struct{ Repo repository.ContentRepository }

func (u RefreshContent) Execute(ctx context.Context, linkID string) error {
	return u.Repo.Refresh(ctx, linkID)
}

type DeleteContent struct{ Repo repository.ContentRepository }

func (u DeleteContent) Execute(ctx context.Context, linkID string) error {
	return u.Repo.Delete(ctx, linkID)
}

type SearchContent struct{ Repo repository.ContentRepository }

func (u SearchContent) Execute(ctx context.Context, query string, limit int) ([]domain.Content, error) {
	return u.Repo.Search(ctx, query, limit)
}

type BackfillEmbeddings struct{ Repo repository.ContentRepository }

func (u BackfillEmbeddings) Execute(ctx context.Context) (string, error) {
	return u.Repo.BackfillEmbeddings(ctx)
}

type AddLink struct{ Repo repository.LinkRepository }

func (u AddLink) Execute(ctx context.Context, link domain.NewLink) (domain.Link, error) {
	return u.Repo.Create(ctx, link)
}

type GetLinks struct{ Repo repository.LinkRepository }

func (u GetLinks) Execute(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Link], error) {
	return u.Repo.List(ctx, req)
}

type UpdateLink struct{ Repo repository.LinkRepository }

func (u UpdateLink) Execute(ctx context.Context, id string, update domain.LinkUpdate) (domain.Link, error) {
	return u.Repo.Update(ctx, id, update)
}

type DeleteLink struct{ Repo repository.LinkRepository }

func (u DeleteLink) Execute(ctx context.Context, id string) error {
	return u.Repo.Delete(ctx, id)
}

type GetRelatedLinks struct{ Repo repository.LinkRepository }

func (u GetRelatedLinks) Execute(ctx context.Context, id string) ([]domain.Link, error) {
	return u.Repo.Related(ctx, id)
}

type GetGraph struct{ Repo repository.LinkRepository }

func (u GetGraph) Execute(ctx context.Context) (domain.GraphData, error) {
	return u.Repo.Graph(ctx)
}

type GetCollections struct{ Repo repository.CollectionRepository }

func (u GetCollections) Execute(ctx context.Context) ([]domain.Collection, error) {
	return u.Repo.List(ctx)
}

type GetCollection struct{ Repo repository.CollectionRepository }

func (u GetCollection) Execute(ctx context.Context, id string) (domain.CollectionWithLinks, error) {
	return u.Repo.Get(ctx, id)
}

type CreateCollection struct{ Repo repository.CollectionRepository }

func (u CreateCollection) Execute(ctx context.Context, c domain.NewCollection) (domain.Collection, error) {
	return u.Repo.Create(ctx, c)
}

type DeleteCollection struct{ Repo repository.CollectionRepository }

func (u DeleteCollection) Execute(ctx context.Context, id string) error {
	return u.Repo.Delete(ctx, id)
}

type AddLinkToCollection struct{ Repo repository.CollectionRepository }

func (u AddLinkToCollection) Execute(ctx context.Context, collectionID, linkID string) error {
	return u.Repo.AddLink(ctx, collectionID, linkID)
}

type RemoveLinkFromCollection struct{ Repo repository.CollectionRepository }

func (u RemoveLinkFromCollection) Execute(ctx context.Context, collectionID, linkID string) error {
	return u.Repo.RemoveLink(ctx, collectionID, linkID)
}

type Login struct{ Repo repository.AuthRepository }

func (u Login) Execute(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	return u.Repo.Login(ctx, creds)
}

type Register struct{ Repo repository.AuthRepository }

func (u Register) Execute(ctx context.Context, reg domain.Registration) (domain.User, error) {
	return u.Repo.Register(ctx, reg)
}

type Logout struct{ Repo repository.AuthRepository }

func (u Logout) Execute(ctx context.Context) error {
	return u.Repo.Logout(ctx)
}
