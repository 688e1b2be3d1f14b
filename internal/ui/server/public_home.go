package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
)

func (s *server) handleLanding(w http.ResponseWriter, r *http.Request) {
	data := landingPageData{
		basePageData: s.basePageData(nav.Landing, ""),
		Landing:      s.landing,
	}
	s.render(w, r, "home", data)
}

// handlePage selects exactly one page variant for the requested path.
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	route, err := nav.Resolve("/" + chi.URLParam(r, "page"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	switch route {
	case nav.Landing:
		s.handleLanding(w, r)
	default:
		s.handleSessionPage(w, r, route)
	}
}
