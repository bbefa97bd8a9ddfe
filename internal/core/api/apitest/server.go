// Package apitest provides an in-process fake of the LinkLift HTTP API for
// tests. It mirrors the backend's response envelopes endpoint by endpoint.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/seckatie/linklift/internal/core/domain"
)

// Route names, usable with Fail and Calls.
const (
	RouteCreateLink        = "createLink"
	RouteListLinks         = "listLinks"
	RouteUpdateLink        = "updateLink"
	RouteDeleteLink        = "deleteLink"
	RouteGetContent        = "getContent"
	RouteRefreshContent    = "refreshContent"
	RouteDeleteContent     = "deleteContent"
	RouteRelated           = "related"
	RouteGraph             = "graph"
	RouteSearch            = "search"
	RouteBackfill          = "backfill"
	RouteListCollections   = "listCollections"
	RouteCreateCollection  = "createCollection"
	RouteGetCollection     = "getCollection"
	RouteDeleteCollection  = "deleteCollection"
	RouteAddToCollection   = "addToCollection"
	RouteRemoveFromCollect = "removeFromCollection"
	RouteLogin             = "login"
	RouteRegister          = "register"
	RouteLogout            = "logout"
	RouteRefresh           = "refresh"
)

// Server is a fake LinkLift backend.
type Server struct {
	*httptest.Server

	// RequireAuth makes every non-auth route demand the current access token.
	RequireAuth bool
	// Password is accepted for any login identifier.
	Password string

	mu           sync.Mutex
	links        []domain.Link
	contents     map[string]domain.Content
	related      map[string][]domain.Link
	collections  []*domain.CollectionWithLinks
	accessToken  string
	refreshToken string
	tokenSeq     int
	nextID       int
	calls        map[string]int
	failures     map[string]int
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Password:     "secret",
		contents:     make(map[string]domain.Content),
		related:      make(map[string][]domain.Link),
		accessToken:  "access-0",
		refreshToken: "refresh-0",
		calls:        make(map[string]int),
		failures:     make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// APIURL is the API root to hand to api.New.
func (s *Server) APIURL() string { return s.URL + "/api/v1" }

// Tokens returns the currently valid access and refresh tokens.
func (s *Server) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// Fail makes the named route answer with status until cleared with status 0.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Calls reports how many requests the named route received.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// AddLink stores a link and returns it with an assigned id.
func (s *Server) AddLink(l domain.Link) domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLinkLocked(l)
}

func (s *Server) addLinkLocked(l domain.Link) domain.Link {
	if l.ID == "" {
		s.nextID++
		l.ID = fmt.Sprintf("link-%d", s.nextID)
	}
	if l.ExtractedAt == "" {
		l.ExtractedAt = time.Date(2025, 1, 1, 0, 0, len(s.links), 0, time.UTC).Format(time.RFC3339)
	}
	s.links = append(s.links, l)
	return l
}

// SetContent stores the content of a link.
func (s *Server) SetContent(c domain.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = "content-" + c.LinkID
	}
	s.contents[c.LinkID] = c
}

// SetRelated sets the related links of id.
func (s *Server) SetRelated(id string, links []domain.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.related[id] = links
}

// Links returns a copy of the stored links.
func (s *Server) Links() []domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Link(nil), s.links...)
}

// Content returns the stored content of a link.
func (s *Server) Content(linkID string) (domain.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contents[linkID]
	return c, ok
}

// AddCollection stores a collection and returns it with an assigned id.
func (s *Server) AddCollection(c domain.Collection, links ...domain.Link) domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		s.nextID++
		c.ID = fmt.Sprintf("collection-%d", s.nextID)
	}
	s.collections = append(s.collections, &domain.CollectionWithLinks{Collection: c, Links: links})
	return c
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.track)
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/link", s.createLink).Methods(http.MethodPut).Name(RouteCreateLink)
	v1.HandleFunc("/links", s.listLinks).Methods(http.MethodGet).Name(RouteListLinks)
	v1.HandleFunc("/links/{id}", s.updateLink).Methods(http.MethodPatch).Name(RouteUpdateLink)
	v1.HandleFunc("/links/{id}", s.deleteLink).Methods(http.MethodDelete).Name(RouteDeleteLink)
	v1.HandleFunc("/links/{id}/content", s.getContent).Methods(http.MethodGet).Name(RouteGetContent)
	v1.HandleFunc("/links/{id}/content", s.deleteContent).Methods(http.MethodDelete).Name(RouteDeleteContent)
	v1.HandleFunc("/links/{id}/content/refresh", s.refreshContent).Methods(http.MethodPost).Name(RouteRefreshContent)
	v1.HandleFunc("/links/{id}/related", s.relatedLinks).Methods(http.MethodGet).Name(RouteRelated)
	v1.HandleFunc("/graph", s.graph).Methods(http.MethodGet).Name(RouteGraph)
	v1.HandleFunc("/search", s.search).Methods(http.MethodGet).Name(RouteSearch)
	v1.HandleFunc("/admin/backfill-embeddings", s.backfill).Methods(http.MethodPost).Name(RouteBackfill)

	v1.HandleFunc("/collections", s.listCollections).Methods(http.MethodGet).Name(RouteListCollections)
	v1.HandleFunc("/collections", s.createCollection).Methods(http.MethodPost).Name(RouteCreateCollection)
	v1.HandleFunc("/collections/{id}", s.getCollection).Methods(http.MethodGet).Name(RouteGetCollection)
	v1.HandleFunc("/collections/{id}", s.deleteCollection).Methods(http.MethodDelete).Name(RouteDeleteCollection)
	v1.HandleFunc("/collections/{id}/links", s.addToCollection).Methods(http.MethodPost).Name(RouteAddToCollection)
	v1.HandleFunc("/collections/{id}/links/{linkId}", s.removeFromCollection).Methods(http.MethodDelete).Name(RouteRemoveFromCollect)

	v1.HandleFunc("/auth/login", s.login).Methods(http.MethodPost).Name(RouteLogin)
	v1.HandleFunc("/auth/register", s.register).Methods(http.MethodPost).Name(RouteRegister)
	v1.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost).Name(RouteLogout)
	v1.HandleFunc("/auth/refresh", s.refresh).Methods(http.MethodPost).Name(RouteRefresh)

	return r
}

// track counts calls, applies forced failures and enforces auth.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.calls[name]++
		status, failing := s.failures[name]
		access := s.accessToken
		s.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]any{"status": status, "message": http.StatusText(status)})
			return
		}

		if s.RequireAuth && !strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
			if r.Header.Get("Authorization") != "Bearer "+access {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Unauthorized"})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func envelope(data any, message string) map[string]any {
	return map[string]any{"data": data, "message": message}
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	var req domain.NewLink
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Url cannot be empty"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.URL == req.URL {
			writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "Link already exists"})
			return
		}
	}
	link := s.addLinkLocked(domain.Link{URL: req.URL, Title: req.Title, Description: req.Description})
	s.contents[link.ID] = domain.Content{ID: "content-" + link.ID, LinkID: link.ID, Status: domain.StatusPending}
	writeJSON(w, http.StatusCreated, map[string]any{"link": link, "status": "Link received"})
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 20
	}
	sortBy := q.Get("sortBy")
	desc := !strings.EqualFold(q.Get("sortDirection"), domain.SortAsc)

	s.mu.Lock()
	links := append([]domain.Link(nil), s.links...)
	s.mu.Unlock()

	sort.SliceStable(links, func(i, j int) bool {
		var a, b string
		switch sortBy {
		case "title":
			a, b = links[i].Title, links[j].Title
		case "url":
			a, b = links[i].URL, links[j].URL
		default:
			a, b = links[i].ExtractedAt, links[j].ExtractedAt
		}
		if desc {
			return a > b
		}
		return a < b
	})

	total := len(links)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, envelope(domain.Page[domain.Link]{
		Content:       links[start:end],
		TotalPages:    totalPages,
		TotalElements: total,
		Size:          size,
		Number:        page,
	}, "Links retrieved successfully"))
}

func (s *Server) findLinkLocked(id string) int {
	for i, l := range s.links {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) updateLink(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req domain.LinkUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLinkLocked(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Link not found"})
		return
	}
	s.links[i].Title = req.Title
	s.links[i].Description = req.Description
	writeJSON(w, http.StatusOK, map[string]any{"data": s.links[i]})
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLinkLocked(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Link not found"})
		return
	}
	s.links = append(s.links[:i], s.links[i+1:]...)
	delete(s.contents, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	c, ok := s.contents[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Content not found for link: " + id})
		return
	}
	writeJSON(w, http.StatusOK, envelope(c, "Content retrieved successfully"))
}

func (s *Server) refreshContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLinkLocked(id) < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Link not found"})
		return
	}
	c := s.contents[id]
	c.LinkID = id
	if c.ID == "" {
		c.ID = "content-" + id
	}
	c.Status = domain.StatusPending
	s.contents[id] = c
	writeJSON(w, http.StatusAccepted, map[string]any{"message": "Content refresh triggered"})
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contents[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Content not found"})
		return
	}
	delete(s.contents, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) relatedLinks(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	related := s.related[id]
	s.mu.Unlock()
	if related == nil {
		related = []domain.Link{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": related})
}

func (s *Server) graph(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := domain.GraphData{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}
	for _, l := range s.links {
		data.Nodes = append(data.Nodes, domain.GraphNode{ID: l.ID, Label: l.Title, URL: l.URL})
	}
	for src, targets := range s.related {
		for _, t := range targets {
			data.Edges = append(data.Edges, domain.GraphEdge{Source: src, Target: t.ID})
		}
	}
	writeJSON(w, http.StatusOK, envelope(data, "Graph data retrieved successfully"))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Search query cannot be empty"))
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	var ids []string
	for id := range s.contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	results := []domain.Content{}
	for _, id := range ids {
		c := s.contents[id]
		if strings.Contains(strings.ToLower(c.TextContent), query) {
			results = append(results, c)
		}
		if len(results) == limit {
			break
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) backfill(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("Backfill process started"))
}

func (s *Server) listCollections(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Collection{}
	for _, c := range s.collections {
		out = append(out, c.Collection)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) findCollectionLocked(id string) int {
	for i, c := range s.collections {
		if c.Collection.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var req domain.NewCollection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Collection name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := domain.Collection{
		ID:          fmt.Sprintf("collection-%d", s.nextID),
		Name:        req.Name,
		Description: req.Description,
		Query:       req.Query,
	}
	s.collections = append(s.collections, &domain.CollectionWithLinks{Collection: c, Links: []domain.Link{}})
	writeJSON(w, http.StatusCreated, map[string]any{"data": c})
}

func (s *Server) getCollection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findCollectionLocked(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Collection not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": s.collections[i]})
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findCollectionLocked(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Collection not found"})
		return
	}
	s.collections = append(s.collections[:i], s.collections[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addToCollection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		LinkID string `json:"linkId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LinkID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "linkId is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ci := s.findCollectionLocked(id)
	li := s.findLinkLocked(req.LinkID)
	if ci < 0 || li < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Not found"})
		return
	}
	for _, l := range s.collections[ci].Links {
		if l.ID == req.LinkID {
			writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "Link already in collection"})
			return
		}
	}
	s.collections[ci].Links = append(s.collections[ci].Links, s.links[li])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeFromCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	ci := s.findCollectionLocked(vars["id"])
	if ci < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Collection not found"})
		return
	}
	links := s.collections[ci].Links
	for i, l := range links {
		if l.ID == vars["linkId"] {
			s.collections[ci].Links = append(links[:i], links[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) issueTokensLocked() (string, string) {
	s.tokenSeq++
	s.accessToken = fmt.Sprintf("access-%d", s.tokenSeq)
	s.refreshToken = fmt.Sprintf("refresh-%d", s.tokenSeq)
	return s.accessToken, s.refreshToken
}

func authResult(access, refresh, login string) domain.AuthResult {
	return domain.AuthResult{
		UserID:       "user-1",
		Username:     login,
		Email:        login + "@example.com",
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      "Login successful",
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != s.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Invalid credentials"})
		return
	}

	s.mu.Lock()
	access, refresh := s.issueTokensLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, authResult(access, refresh, req.LoginIdentifier))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Username is required"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        "user-1",
		"username":  req.Username,
		"email":     req.Email,
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"message":   "User registered successfully",
	})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	if req.RefreshToken == "" || req.RefreshToken != s.refreshToken {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Invalid refresh token"})
		return
	}
	access, refresh := s.issueTokensLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, authResult(access, refresh, "user"))
}
