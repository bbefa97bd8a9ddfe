package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/store"
	"github.com/seckatie/linklift/internal/core/viewer"
)

type indexPage struct {
	ActivePage string
	Links      store.LinkState
	Form       *viewer.AddLinkForm
	HasPrev    bool
	HasNext    bool
}

func (ws *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r, ws.store.CurrentRequest())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The slice records the failure; the page shows its message.
	_ = ws.store.FetchLinks(r.Context(), req)
	ws.renderIndex(w, http.StatusOK, viewer.NewAddLinkForm(ws.store, nil))
}

func (ws *Server) renderIndex(w http.ResponseWriter, status int, form *viewer.AddLinkForm) {
	links := ws.store.Links()
	ws.renderTemplate(w, status, "index.html", indexPage{
		ActivePage: "links",
		Links:      links,
		Form:       form,
		HasPrev:    links.Request.Page > 0,
		HasNext:    links.Request.Page+1 < links.TotalPages,
	})
}

// pageRequest reads page, size, sort and dir over cur.
func pageRequest(r *http.Request, cur domain.PageRequest) (domain.PageRequest, error) {
	req := cur
	var err error
	if req.Page, err = intParam(r, "page", cur.Page); err != nil {
		return req, err
	}
	if req.Size, err = intParam(r, "size", cur.Size); err != nil {
		return req, err
	}
	if req.Size == 0 {
		req.Size = domain.DefaultPageSize
	}
	q := r.URL.Query()
	if s := q.Get("sort"); s != "" {
		req.SortBy = s
	}
	if d := q.Get("dir"); d != "" {
		req.SortDirection = domain.NormalizeSortDirection(d)
	}
	// Changing size or sort starts over at the first page.
	if q.Get("page") == "" && (req.Size != cur.Size || req.SortBy != cur.SortBy || req.SortDirection != cur.SortDirection) {
		req.Page = 0
	}
	return req, nil
}

func (ws *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	form := viewer.NewAddLinkForm(ws.store, nil)
	form.URL = r.FormValue("url")
	form.Title = r.FormValue("title")
	form.Description = r.FormValue("description")

	if _, err := form.Submit(r.Context()); err != nil {
		status := http.StatusBadGateway
		if len(form.Errors) > 0 {
			status = http.StatusUnprocessableEntity
		}
		ws.renderIndex(w, status, form)
		return
	}
	redirect(w, r, "/")
}

func (ws *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := ws.store.DeleteLink(r.Context(), id); err != nil {
		http.Error(w, ws.store.Links().Message, http.StatusBadGateway)
		return
	}

	ws.viewMu.Lock()
	if ws.viewer.Watcher().LinkID() == id {
		_ = ws.viewer.Watcher().SetLinkID(r.Context(), "")
	}
	ws.viewMu.Unlock()

	redirect(w, r, "/")
}
