package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seckatie/linklift/internal/core/api/apitest"
	"github.com/seckatie/linklift/internal/core/domain"
)

func newTestClient(t *testing.T, srv *apitest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.APIURL(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "localhost:7070", "://nope"} {
		if _, err := New(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
		want string
	}{
		{name: "data envelope", body: `{"data":{"id":"1"},"message":"ok"}`, want: `{"id":"1"}`},
		{name: "double wrapped", body: `{"data":{"data":{"id":"1"}}}`, want: `{"id":"1"}`},
		{name: "bare object", body: `{"id":"1"}`, want: `{"id":"1"}`},
		{name: "bare array", body: `[{"id":"1"}]`, want: `[{"id":"1"}]`},
		{name: "keyed payload", body: `{"link":{"id":"1"},"status":"Link received"}`, key: "link", want: `{"id":"1"}`},
		{name: "key ignored when data present", body: `{"data":{"id":"2"},"link":{"id":"1"}}`, key: "link", want: `{"id":"2"}`},
		{name: "null data", body: `{"data":null}`, want: `null`},
		{name: "empty", body: ``, want: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrap([]byte(tt.body), tt.key)
			if err != nil {
				t.Fatalf("unwrap: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCreateAndListLinks(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	created, err := c.CreateLink(ctx, domain.NewLink{URL: "https://go.dev", Title: "Go", Description: "The Go site"})
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if created.ID == "" || created.URL != "https://go.dev" {
		t.Fatalf("unexpected link: %+v", created)
	}

	_, err = c.CreateLink(ctx, domain.NewLink{URL: "https://go.dev", Title: "Go", Description: "again"})
	if StatusCode(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}

	for _, u := range []string{"https://a.example", "https://b.example"} {
		if _, err := c.CreateLink(ctx, domain.NewLink{URL: u, Title: u, Description: u}); err != nil {
			t.Fatalf("CreateLink %s: %v", u, err)
		}
	}

	page, err := c.ListLinks(ctx, domain.PageRequest{Page: 1, Size: 2, SortBy: "url", SortDirection: domain.SortAsc})
	if err != nil {
		t.Fatalf("ListLinks: %v", err)
	}
	if page.TotalElements != 3 || page.TotalPages != 2 || page.Number != 1 {
		t.Errorf("unexpected page meta: %+v", page)
	}
	if len(page.Content) != 1 || page.Content[0].URL != "https://go.dev" {
		t.Errorf("expected last page to hold go.dev, got %+v", page.Content)
	}
	if err := page.Valid(); err != nil {
		t.Errorf("page invalid: %v", err)
	}
}

func TestUpdateAndDeleteLink(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()
	link := srv.AddLink(domain.Link{URL: "https://example.com", Title: "old"})

	updated, err := c.UpdateLink(ctx, link.ID, domain.LinkUpdate{Title: "new", Description: "desc"})
	if err != nil {
		t.Fatalf("UpdateLink: %v", err)
	}
	if updated.Title != "new" || updated.Description != "desc" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if err := c.DeleteLink(ctx, link.ID); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if len(srv.Links()) != 0 {
		t.Errorf("expected link to be deleted")
	}

	err = c.DeleteLink(ctx, link.ID)
	if Classify(err) != CategoryNotFound {
		t.Errorf("expected not_found, got %v (%v)", Classify(err), err)
	}
}

func TestContentEndpoints(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()
	link := srv.AddLink(domain.Link{URL: "https://example.com"})

	_, err := c.GetContent(ctx, link.ID)
	if Classify(err) != CategoryNotFound {
		t.Fatalf("expected not_found before content exists, got %v", err)
	}

	size := int64(42)
	srv.SetContent(domain.Content{LinkID: link.ID, Status: domain.StatusCompleted, TextContent: "hello gophers", ContentLength: &size})

	content, err := c.GetContent(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if content.Status != domain.StatusCompleted || content.ContentLength == nil || *content.ContentLength != 42 {
		t.Errorf("unexpected content: %+v", content)
	}

	results, err := c.Search(ctx, "gophers", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].LinkID != link.ID {
		t.Errorf("unexpected search results: %+v", results)
	}

	if err := c.RefreshContent(ctx, link.ID); err != nil {
		t.Fatalf("RefreshContent: %v", err)
	}
	if got, _ := srv.Content(link.ID); got.Status != domain.StatusPending {
		t.Errorf("expected refresh to reset status to PENDING, got %s", got.Status)
	}

	if err := c.DeleteContent(ctx, link.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}

	msg, err := c.BackfillEmbeddings(ctx)
	if err != nil {
		t.Fatalf("BackfillEmbeddings: %v", err)
	}
	if msg != "Backfill process started" {
		t.Errorf("unexpected backfill message %q", msg)
	}
}

func TestCollectionsEndpoints(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()
	link := srv.AddLink(domain.Link{URL: "https://example.com", Title: "Example"})

	empty, err := c.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", empty)
	}

	col, err := c.CreateCollection(ctx, domain.NewCollection{Name: "Reading"})
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	if err := c.AddLinkToCollection(ctx, col.ID, link.ID); err != nil {
		t.Fatalf("AddLinkToCollection: %v", err)
	}
	err = c.AddLinkToCollection(ctx, col.ID, link.ID)
	if StatusCode(err) != http.StatusConflict {
		t.Errorf("expected 409 on duplicate add, got %v", err)
	}

	got, err := c.GetCollection(ctx, col.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	want := domain.CollectionWithLinks{Collection: col, Links: []domain.Link{link}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}

	if err := c.RemoveLinkFromCollection(ctx, col.ID, link.ID); err != nil {
		t.Fatalf("RemoveLinkFromCollection: %v", err)
	}
	if err := c.DeleteCollection(ctx, col.ID); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}
}

func TestRelatedAndGraph(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()
	a := srv.AddLink(domain.Link{URL: "https://a.example", Title: "A"})
	b := srv.AddLink(domain.Link{URL: "https://b.example", Title: "B"})
	srv.SetRelated(a.ID, []domain.Link{b})

	related, err := c.RelatedLinks(ctx, a.ID)
	if err != nil {
		t.Fatalf("RelatedLinks: %v", err)
	}
	if len(related) != 1 || related[0].ID != b.ID {
		t.Errorf("unexpected related links: %+v", related)
	}

	graph, err := c.Graph(ctx)
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(graph.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(graph.Nodes))
	}
	if diff := cmp.Diff([]domain.GraphEdge{{Source: a.ID, Target: b.ID}}, graph.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginAttachesBearerToken(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireAuth = true
	c := newTestClient(t, srv)
	ctx := context.Background()

	var changes []domain.Session
	c.OnSessionChange(func(s domain.Session) { changes = append(changes, s) })

	if _, err := c.ListLinks(ctx, domain.DefaultPageRequest()); Classify(err) != CategoryForbidden {
		t.Fatalf("expected forbidden before login, got %v", err)
	}

	if _, err := c.Login(ctx, domain.Credentials{LoginIdentifier: "gopher", Password: "wrong"}); StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %v", err)
	}

	sess, err := c.Login(ctx, domain.Credentials{LoginIdentifier: "gopher", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.User.Username != "gopher" || sess.AccessToken == "" || sess.SavedAt == "" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if len(changes) != 1 {
		t.Errorf("expected one session change, got %d", len(changes))
	}

	if _, err := c.ListLinks(ctx, domain.DefaultPageRequest()); err != nil {
		t.Fatalf("ListLinks after login: %v", err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.Session().AccessToken != "" {
		t.Errorf("expected session cleared after logout")
	}
}

func TestSilentRefreshRetriesOnce(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireAuth = true
	_, refresh := srv.Tokens()
	c := newTestClient(t, srv, WithSession(domain.Session{AccessToken: "stale", RefreshToken: refresh}))

	if _, err := c.ListLinks(context.Background(), domain.DefaultPageRequest()); err != nil {
		t.Fatalf("expected refresh and retry to succeed, got %v", err)
	}
	if got := srv.Calls(apitest.RouteRefresh); got != 1 {
		t.Errorf("expected 1 refresh call, got %d", got)
	}
	if got := srv.Calls(apitest.RouteListLinks); got != 2 {
		t.Errorf("expected 2 list calls, got %d", got)
	}
	access, _ := srv.Tokens()
	if c.Session().AccessToken != access {
		t.Errorf("expected client to hold the renewed token")
	}
}

func TestSilentRefreshFailureExpiresSession(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireAuth = true
	c := newTestClient(t, srv, WithSession(domain.Session{AccessToken: "stale", RefreshToken: "revoked"}))

	var last *domain.Session
	c.OnSessionChange(func(s domain.Session) { last = &s })

	_, err := c.ListLinks(context.Background(), domain.DefaultPageRequest())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("expected original 401 to be preserved, got %d", StatusCode(err))
	}
	if last == nil || last.AccessToken != "" {
		t.Errorf("expected listeners to see a cleared session")
	}
	if got := srv.Calls(apitest.RouteListLinks); got != 1 {
		t.Errorf("expected no retry after failed refresh, got %d calls", got)
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	if err := c.Refresh(context.Background()); !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "nil", err: nil, want: CategoryGeneric},
		{name: "network", err: &NetworkError{Err: errors.New("refused")}, want: CategoryNetwork},
		{name: "not found", err: &HTTPError{StatusCode: 404}, want: CategoryNotFound},
		{name: "unauthorized", err: &HTTPError{StatusCode: 401}, want: CategoryForbidden},
		{name: "forbidden", err: &HTTPError{StatusCode: 403}, want: CategoryForbidden},
		{name: "server", err: &HTTPError{StatusCode: 503}, want: CategoryServer},
		{name: "bad request", err: &HTTPError{StatusCode: 400}, want: CategoryGeneric},
		{name: "unknown", err: &UnknownError{Err: errors.New("bad json")}, want: CategoryGeneric},
		{name: "joined", err: errors.Join(ErrSessionExpired, &HTTPError{StatusCode: 401}), want: CategoryForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNetworkErrorWhenServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/v1"
	srv.Close()

	c, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.GetContent(context.Background(), "1")
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestUndecodableBodyIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": "not a content object"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.GetContent(context.Background(), "1")
	var unknown *UnknownError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownError, got %T %v", err, err)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Fail(apitest.RouteCreateLink, http.StatusBadRequest)
	c := newTestClient(t, srv)

	_, err := c.CreateLink(context.Background(), domain.NewLink{URL: "https://x.example"})
	if got := Message(err); got != "Bad Request" {
		t.Errorf("expected backend message, got %q", got)
	}
	if !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("expected status in error text, got %q", err.Error())
	}
}

func TestRequestIDHeader(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := c.DeleteLink(context.Background(), "1"); err != nil {
			t.Fatalf("DeleteLink: %v", err)
		}
	}
	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("expected distinct request ids, got %v", ids)
	}
}
