package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/viewer"
)

var templateFuncs = template.FuncMap{
	"relDate": func(raw string) string { return viewer.FormatDate(raw, time.Now()) },
	"add":     func(a, b int) int { return a + b },
}

// renderTemplate renders a template with the standard HTML content-type header.
// If template execution fails, it logs the error and returns a 500 response.
func (ws *Server) renderTemplate(w http.ResponseWriter, status int, templateName string, data any) {
	var b strings.Builder
	if err := ws.templates.ExecuteTemplate(&b, templateName, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		ws.log.WithError(err).WithField("template", templateName).Error("failed to execute template")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(b.String())); err != nil {
		ws.log.WithError(err).Debug("failed to write response")
	}
}

// redirect answers a form post with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func linkURL(id string) string {
	return "/links/" + url.PathEscape(id)
}

func collectionURL(id string) string {
	return "/collections/" + url.PathEscape(id)
}

// intParam parses a non-negative query parameter, returning def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return n, nil
}

// findLink looks id up in the current link page.
func (ws *Server) findLink(id string) *domain.Link {
	for _, l := range ws.store.Links().Links {
		if l.ID == id {
			l := l
			return &l
		}
	}
	return nil
}
