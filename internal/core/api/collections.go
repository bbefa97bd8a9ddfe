package api

import (
	"context"
	"net/http"

	"github.com/seckatie/linklift/internal/core/domain"
)

// ListCollections returns the user's collections.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var out []domain.Collection
	err := c.do(ctx, request{method: http.MethodGet, path: "/collections"}, &out)
	if out == nil && err == nil {
		out = []domain.Collection{}
	}
	return out, err
}

// GetCollection returns a collection with its links.
func (c *Client) GetCollection(ctx context.Context, id string) (domain.CollectionWithLinks, error) {
	var out domain.CollectionWithLinks
	err := c.do(ctx, request{method: http.MethodGet, path: collectionPath(id)}, &out)
	return out, err
}

// CreateCollection creates a collection.
func (c *Client) CreateCollection(ctx context.Context, col domain.NewCollection) (domain.Collection, error) {
	var out domain.Collection
	err := c.do(ctx, request{method: http.MethodPost, path: "/collections", body: col}, &out)
	return out, err
}

// DeleteCollection removes a collection. Its links are kept.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: collectionPath(id)}, nil)
}

// AddLinkToCollection adds a link to a collection.
func (c *Client) AddLinkToCollection(ctx context.Context, collectionID, linkID string) error {
	body := map[string]string{"linkId": linkID}
	return c.do(ctx, request{method: http.MethodPost, path: collectionPath(collectionID, "links"), body: body}, nil)
}

// RemoveLinkFromCollection removes a link from a collection.
func (c *Client) RemoveLinkFromCollection(ctx context.Context, collectionID, linkID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: collectionPath(collectionID, "links", linkID)}, nil)
}
