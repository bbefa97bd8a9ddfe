// Package repository defines the data access interfaces of the client and
// their implementations backed by the LinkLift API.
package repository

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/seckatie/linklift/internal/core/repository LinkRepository,ContentRepository,CollectionRepository,AuthRepository

import (
	"context"

	"github.com/seckatie/linklift/internal/core/domain"
)

// LinkRepository manages links.
type LinkRepository interface {
	Create(ctx context.Context, link domain.NewLink) (domain.Link, error)
	List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Link], error)
	Update(ctx context.Context, id string, update domain.LinkUpdate) (domain.Link, error)
	Delete(ctx context.Context, id string) error
	Related(ctx context.Context, id string) ([]domain.Link, error)
	Graph(ctx context.Context) (domain.GraphData, error)
}

// ContentRepository manages the extracted content of links.
type ContentRepository interface {
	Get(ctx context.Context, linkID string) (domain.Content, error)
	Refresh(ctx context.Context, linkID string) error
	Delete(ctx context.Context, linkID string) error
	Search(ctx context.Context, query string, limit int) ([]domain.Content, error)
	BackfillEmbeddings(ctx context.Context) (string, error)
}

// CollectionRepository manages collections and their membership.
type CollectionRepository interface {
	List(ctx context.Context) ([]domain.Collection, error)
	Get(ctx context.Context, id string) (domain.CollectionWithLinks, error)
	Create(ctx context.Context, c domain.NewCollection) (domain.Collection, error)
	Delete(ctx context.Context, id string) error
	AddLink(ctx context.Context, collectionID, linkID string) error
	RemoveLink(ctx context.Context, collectionID, linkID string) error
}

// AuthRepository manages the user session.
type AuthRepository interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
}
