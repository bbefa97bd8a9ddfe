package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/seckatie/linklift/internal/core/domain"
)

// GetContent fetches the extracted content of a link.
func (c *Client) GetContent(ctx context.Context, linkID string) (domain.Content, error) {
	var out domain.Content
	err := c.do(ctx, request{method: http.MethodGet, path: linkPath(linkID, "content")}, &out)
	return out, err
}

// RefreshContent asks the backend to re-extract a link's content. The
// extraction itself runs asynchronously on the backend.
func (c *Client) RefreshContent(ctx context.Context, linkID string) error {
	return c.do(ctx, request{method: http.MethodPost, path: linkPath(linkID, "content", "refresh")}, nil)
}

// DeleteContent removes the extracted content of a link.
func (c *Client) DeleteContent(ctx context.Context, linkID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: linkPath(linkID, "content")}, nil)
}

// Search runs a vector search over stored content.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Content, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []domain.Content
	err := c.do(ctx, request{method: http.MethodGet, path: "/search", query: q}, &out)
	return out, err
}

// BackfillEmbeddings starts the backend's embedding backfill job and returns
// its acknowledgement text.
func (c *Client) BackfillEmbeddings(ctx context.Context) (string, error) {
	var out string
	err := c.do(ctx, request{method: http.MethodPost, path: "/admin/backfill-embeddings"}, &out)
	return out, err
}
