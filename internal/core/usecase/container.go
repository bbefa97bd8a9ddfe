package usecase

import (
	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/repository"
)

// Repositories is the set of data sources a Container resolves use-cases from.
type Repositories struct {
	Links       repository.LinkRepository
	Content     repository.ContentRepository
	Collections repository.CollectionRepository
	Auth        repository.AuthRepository
}

// Container exposes every use-case. It is built once and injected into the
// store, so tests can swap the repositories for mocks.
type Container struct {
	GetContent         GetContent
	RefreshContent     RefreshContent
	DeleteContent      DeleteContent
	SearchContent      SearchContent
	BackfillEmbeddings BackfillEmbeddings

	AddLink         AddLink
	GetLinks        GetLinks
	UpdateLink      UpdateLink
	DeleteLink      DeleteLink
	GetRelatedLinks GetRelatedLinks
	GetGraph        GetGraph

	GetCollections           GetCollections
	GetCollection            GetCollection
	CreateCollection         CreateCollection
	DeleteCollection         DeleteCollection
	AddLinkToCollection      AddLinkToCollection
	RemoveLinkFromCollection RemoveLinkFromCollection

	Login    Login
	Register Register
	Logout   Logout
}

// NewContainer wires every use-case to its repository.
func NewContainer(r Repositories) *Container {
	return &Container{
		GetContent:         GetContent{Repo: r.Content},
		RefreshContent:     RefreshContent{Repo: r.Content},
		DeleteContent:      DeleteContent{Repo: r.Content},
		SearchContent:      SearchContent{Repo: r.Content},
		BackfillEmbeddings: BackfillEmbeddings{Repo: r.Content},

		AddLink:         AddLink{Repo: r.Links},
		GetLinks:        GetLinks{Repo: r.Links},
		UpdateLink:      UpdateLink{Repo: r.Links},
		DeleteLink:      DeleteLink{Repo: r.Links},
		GetRelatedLinks: GetRelatedLinks{Repo: r.Links},
		GetGraph:        GetGraph{Repo: r.Links},

		GetCollections:           GetCollections{Repo: r.Collections},
		GetCollection:            GetCollection{Repo: r.Collections},
		CreateCollection:         CreateCollection{Repo: r.Collections},
		DeleteCollection:         DeleteCollection{Repo: r.Collections},
		AddLinkToCollection:      AddLinkToCollection{Repo: r.Collections},
		RemoveLinkFromCollection: RemoveLinkFromCollection{Repo: r.Collections},

		Login:    Login{Repo: r.Auth},
		Register: Register{Repo: r.Auth},
		Logout:   Logout{Repo: r.Auth},
	}
}

// NewAPIContainer wires every use-case to the API-backed repositories.
func NewAPIContainer(c *api.Client) *Container {
	return NewContainer(Repositories{
		Links:       repository.NewAPILinks(c),
		Content:     repository.NewAPIContent(c),
		Collections: repository.NewAPICollections(c),
		Auth:        repository.NewAPIAuth(c),
	})
}
