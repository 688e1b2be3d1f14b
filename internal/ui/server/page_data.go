package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Its-donkey/pricing-protocol/internal/ui/model"
	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
)

type basePageData struct {
	PageTitle      string
	StylesheetPath string
	Brand          string
	Route          nav.Route
	NavLinks       []nav.Link
	CurrentYear    int
}

type landingPageData struct {
	basePageData
	Landing model.LandingContent
}

type sessionPageData struct {
	basePageData
	Variant model.PageVariant
	Columns []string
	List    model.SessionListView
}

func (s *server) basePageData(route nav.Route, title string) basePageData {
	pageTitle := s.siteName
	if title != "" {
		pageTitle = title + " - " + s.siteName
	}
	return basePageData{
		PageTitle:      pageTitle,
		StylesheetPath: s.stylesPath,
		Brand:          nav.Brand,
		Route:          route,
		NavLinks:       nav.Links(route),
		CurrentYear:    s.currentYear,
	}
}

// render executes the named page into a buffer so a template failure never
// leaves a half-written response.
func (s *server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.renderFailed(w, r, fmt.Errorf("template %q not loaded", name))
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.renderFailed(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	s.metrics.renders.WithLabelValues(name).Inc()
}

func (s *server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.requestLog(r).WithCategory("render").Error("failed to render page", err)
	http.Error(w, "failed to render page", http.StatusInternalServerError)
}
