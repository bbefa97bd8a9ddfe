package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/store"
)

type collectionsPage struct {
	ActivePage  string
	Collections store.CollectionState
}

func (ws *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	_ = ws.store.FetchCollections(r.Context())
	ws.renderTemplate(w, http.StatusOK, "collections.html", collectionsPage{
		ActivePage:  "collections",
		Collections: ws.store.Collections(),
	})
}

func (ws *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	c := domain.NewCollection{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Query:       strings.TrimSpace(r.FormValue("query")),
	}
	if c.Name == "" {
		http.Error(w, "Name is required", http.StatusUnprocessableEntity)
		return
	}
	if _, err := ws.store.CreateCollection(r.Context(), c); err != nil {
		http.Error(w, ws.store.Collections().Message, http.StatusBadGateway)
		return
	}
	redirect(w, r, "/collections")
}

func (ws *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := ws.store.FetchCollection(r.Context(), id); err != nil {
		status := http.StatusBadGateway
		if api.Classify(err) == api.CategoryNotFound {
			status = http.StatusNotFound
		}
		http.Error(w, ws.store.Collections().Message, status)
		return
	}
	ws.renderTemplate(w, http.StatusOK, "collection.html", collectionsPage{
		ActivePage:  "collections",
		Collections: ws.store.Collections(),
	})
}

func (ws *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := ws.store.DeleteCollection(r.Context(), mux.Vars(r)["id"]); err != nil {
		http.Error(w, ws.store.Collections().Message, http.StatusBadGateway)
		return
	}
	redirect(w, r, "/collections")
}

func (ws *Server) handleAddToCollection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	linkID := strings.TrimSpace(r.FormValue("linkId"))
	if linkID == "" {
		http.Error(w, "linkId is required", http.StatusUnprocessableEntity)
		return
	}
	if err := ws.store.AddLinkToCollection(r.Context(), id, linkID); err != nil {
		http.Error(w, ws.store.Collections().Message, http.StatusBadGateway)
		return
	}
	redirect(w, r, collectionURL(id))
}

func (ws *Server) handleRemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := ws.store.RemoveLinkFromCollection(r.Context(), vars["id"], vars["linkId"]); err != nil {
		http.Error(w, ws.store.Collections().Message, http.StatusBadGateway)
		return
	}
	redirect(w, r, collectionURL(vars["id"]))
}

type searchPage struct {
	ActivePage string
	Search     store.SearchState
}

func (ws *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", store.DefaultSearchLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, _ = ws.store.Search(r.Context(), r.URL.Query().Get("q"), limit)
	ws.renderTemplate(w, http.StatusOK, "search.html", searchPage{
		ActivePage: "search",
		Search:     ws.store.SearchResults(),
	})
}

// handleGraph returns the link graph as JSON, expanded around ?expand= when given.
func (ws *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := ws.store.FetchGraph(ctx); err != nil {
		http.Error(w, ws.store.Graph().Message, http.StatusBadGateway)
		return
	}
	if id := r.URL.Query().Get("expand"); id != "" {
		if _, err := ws.store.ExpandNode(ctx, id); err != nil {
			http.Error(w, ws.store.Graph().Message, http.StatusBadGateway)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ws.store.Graph().Data); err != nil {
		ws.log.WithError(err).Debug("failed to write graph")
	}
}
