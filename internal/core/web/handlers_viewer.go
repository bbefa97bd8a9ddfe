package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/seckatie/linklift/internal/core"
	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/viewer"
)

// rawContentPolicy keeps the extracted document inert: no scripts, no
// same-origin access, nothing fetched except images.
const rawContentPolicy = "sandbox; default-src 'none'; img-src http: https:; style-src 'unsafe-inline'"

type viewerPage struct {
	ActivePage string
	View       viewer.View
	State      string
	Link       *domain.Link
	RawURL     string
}

// selectLink points the watcher at id. With reload, content of an already
// selected link is fetched again. Callers hold viewMu.
func (ws *Server) selectLink(r *http.Request, id string, reload bool) {
	w := ws.viewer.Watcher()
	// Failures are kept in the content slice and shown by the view.
	if reload && w.LinkID() == id {
		_ = w.Refetch(r.Context())
		return
	}
	_ = w.SetLinkID(r.Context(), id)
}

// contentETag identifies the content of id as of the last change seen by
// the server.
func (ws *Server) contentETag(id string) string {
	return fmt.Sprintf(`"%s-%d"`, id, ws.contentVersion.Load())
}

func (ws *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if raw := r.URL.Query().Get("mode"); raw != "" {
		mode, err := viewer.ParseMode(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ws.viewer.SetMode(mode)
	}

	ws.viewMu.Lock()
	ws.selectLink(r, id, true)
	view := ws.viewer.View()
	ws.viewMu.Unlock()

	ws.renderTemplate(w, http.StatusOK, "viewer.html", viewerPage{
		ActivePage: "links",
		View:       view,
		State:      view.State.String(),
		Link:       ws.findLink(id),
		RawURL:     linkURL(id) + "/raw",
	})
}

// handleRawContent serves the sanitized HTML view on its own, for the
// viewer's sandboxed iframe.
func (ws *Server) handleRawContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ws.viewMu.Lock()
	ws.selectLink(r, id, false)
	view := ws.viewer.View()
	etag := ws.contentETag(id)
	ws.viewMu.Unlock()

	if view.State != viewer.StateCompleted || view.HTML == "" {
		http.Error(w, "Content not available", http.StatusNotFound)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	html := view.HTML
	if link := ws.findLink(id); link != nil {
		res, err := core.RebaseHTML(html, link.URL)
		if err != nil {
			ws.log.WithError(err).WithField("link_id", id).Warn("failed to rebase content, serving as is")
		} else {
			html = res.HTML
		}
	}

	w.Header().Set("Content-Security-Policy", rawContentPolicy)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		ws.log.WithError(err).Debug("failed to write content")
	}
}

func (ws *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ws.viewMu.Lock()
	ws.selectLink(r, id, false)
	err := ws.viewer.Retry(r.Context())
	ws.viewMu.Unlock()

	if err != nil {
		ws.log.WithError(err).WithField("link_id", id).Warn("retry failed")
	}
	redirect(w, r, linkURL(id))
}

func (ws *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ws.viewMu.Lock()
	ws.selectLink(r, id, false)
	err := ws.viewer.Watcher().RefreshContent(r.Context())
	ws.viewMu.Unlock()

	if err != nil {
		ws.log.WithError(err).WithField("link_id", id).Warn("refresh failed")
	}
	redirect(w, r, linkURL(id))
}

func (ws *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	mode := ws.viewer.Toggle()
	redirect(w, r, linkURL(id)+"?mode="+url.QueryEscape(mode.String()))
}
