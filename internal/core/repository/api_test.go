package repository

import (
	"context"
	"testing"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/api/apitest"
	"github.com/seckatie/linklift/internal/core/domain"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	c, err := api.New(srv.APIURL())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c, srv
}

func TestAPILinksDelegates(t *testing.T) {
	c, srv := newClient(t)
	repo := NewAPILinks(c)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewLink{URL: "https://go.dev", Title: "Go", Description: "d"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	page, err := repo.List(ctx, domain.DefaultPageRequest())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].ID != created.ID {
		t.Errorf("expected created link in listing, got %+v", page.Content)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := srv.Calls(apitest.RouteDeleteLink); got != 1 {
		t.Errorf("expected one delete call, got %d", got)
	}
}

func TestAPIContentPropagatesErrors(t *testing.T) {
	c, _ := newClient(t)
	repo := NewAPIContent(c)

	_, err := repo.Get(context.Background(), "missing")
	httpErr, ok := err.(*api.HTTPError)
	if !ok {
		t.Fatalf("expected *api.HTTPError unchanged, got %T", err)
	}
	if httpErr.StatusCode != 404 || len(httpErr.Body) == 0 {
		t.Errorf("expected status and body to be preserved, got %+v", httpErr)
	}
}

func TestAPICollectionsRoundTrip(t *testing.T) {
	c, srv := newClient(t)
	repo := NewAPICollections(c)
	ctx := context.Background()
	link := srv.AddLink(domain.Link{URL: "https://example.com"})

	col, err := repo.Create(ctx, domain.NewCollection{Name: "Later"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AddLink(ctx, col.ID, link.ID); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	detail, err := repo.Get(ctx, col.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Links) != 1 {
		t.Errorf("expected 1 link in collection, got %d", len(detail.Links))
	}
	if err := repo.RemoveLink(ctx, col.ID, link.ID); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 collection, got %d", len(list))
	}
}
