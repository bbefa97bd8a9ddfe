package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/seckatie/linklift/internal/core/domain"
)

// CreateLink submits a new link.
func (c *Client) CreateLink(ctx context.Context, link domain.NewLink) (domain.Link, error) {
	var out domain.Link
	err := c.do(ctx, request{method: http.MethodPut, path: "/link", body: link, key: "link"}, &out)
	return out, err
}

// ListLinks returns one page of links.
func (c *Client) ListLinks(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Link], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(req.Size))
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if req.SortDirection != "" {
		q.Set("sortDirection", req.SortDirection)
	}

	var out domain.Page[domain.Link]
	err := c.do(ctx, request{method: http.MethodGet, path: "/links", query: q}, &out)
	return out, err
}

// UpdateLink changes a link's title and description.
func (c *Client) UpdateLink(ctx context.Context, id string, update domain.LinkUpdate) (domain.Link, error) {
	var out domain.Link
	err := c.do(ctx, request{method: http.MethodPatch, path: linkPath(id), body: update}, &out)
	return out, err
}

// DeleteLink removes a link.
func (c *Client) DeleteLink(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: linkPath(id)}, nil)
}

// RelatedLinks returns the links related to id in the graph.
func (c *Client) RelatedLinks(ctx context.Context, id string) ([]domain.Link, error) {
	var out []domain.Link
	err := c.do(ctx, request{method: http.MethodGet, path: linkPath(id, "related")}, &out)
	return out, err
}

// Graph returns the whole related-links graph.
func (c *Client) Graph(ctx context.Context) (domain.GraphData, error) {
	var out domain.GraphData
	err := c.do(ctx, request{method: http.MethodGet, path: "/graph"}, &out)
	return out, err
}
