// Package web serves a local, single-user HTML front end over the store.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/store"
	"github.com/seckatie/linklift/internal/core/viewer"
)

//go:embed templates/*.html static/*.css
var templatesFS embed.FS

// Server renders links, collections, search and the content viewer.
type Server struct {
	store     *store.Store
	viewer    *viewer.Viewer
	log       logrus.FieldLogger
	templates *template.Template
	staticFS  http.FileSystem

	// viewMu serializes content requests; the store holds one content view.
	viewMu sync.Mutex
	// contentVersion counts content changes; it versions the raw view's ETag.
	contentVersion atomic.Uint64
}

// NewServer parses the embedded templates and returns a server over st.
// The viewer must watch the same store.
func NewServer(st *store.Store, v *viewer.Viewer, log logrus.FieldLogger) (*Server, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	staticSub, err := fs.Sub(templatesFS, "static")
	if err != nil {
		return nil, err
	}

	ws := &Server{
		store:     st,
		viewer:    v,
		log:       log.WithField("component", "web"),
		templates: tmpl,
		staticFS:  http.FS(staticSub),
	}
	st.Subscribe(store.OnContentChanged, func(store.Event) error {
		ws.contentVersion.Add(1)
		return nil
	})
	return ws, nil
}

// Handler returns the routed handler.
func (ws *Server) Handler() http.Handler {
	r := mux.NewRouter()
	ws.registerRoutes(r)
	return ws.logRequests(r)
}

func (ws *Server) registerRoutes(r *mux.Router) {
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(ws.staticFS)))

	r.HandleFunc("/", ws.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/links", ws.handleAddLink).Methods(http.MethodPost)
	r.HandleFunc("/links/{id}", ws.handleViewer).Methods(http.MethodGet)
	r.HandleFunc("/links/{id}/raw", ws.handleRawContent).Methods(http.MethodGet)
	r.HandleFunc("/links/{id}/retry", ws.handleRetry).Methods(http.MethodPost)
	r.HandleFunc("/links/{id}/refresh", ws.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/links/{id}/toggle", ws.handleToggle).Methods(http.MethodPost)
	r.HandleFunc("/links/{id}/delete", ws.handleDeleteLink).Methods(http.MethodPost)

	r.HandleFunc("/collections", ws.handleCollections).Methods(http.MethodGet)
	r.HandleFunc("/collections", ws.handleCreateCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{id}", ws.handleCollection).Methods(http.MethodGet)
	r.HandleFunc("/collections/{id}/delete", ws.handleDeleteCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{id}/links", ws.handleAddToCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{id}/links/{linkId}/delete", ws.handleRemoveFromCollection).Methods(http.MethodPost)

	r.HandleFunc("/search", ws.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/graph", ws.handleGraph).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
}

func (ws *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		ws.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request served")
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (ws *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		ws.log.WithField("addr", addr).Info("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		ws.log.Info("web server stopped")
		return nil
	}
}
