package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/Its-donkey/pricing-protocol/internal/pricing"
	"github.com/Its-donkey/pricing-protocol/internal/ui/model"
	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
	"github.com/Its-donkey/pricing-protocol/internal/ui/state"
)

const sessionsLoadError = "failed to load pricing sessions"

// instanceRef identifies the page instance a request acts on.
type instanceRef struct {
	owner string
	id    string
	token string
}

func (s *server) handleSessionPage(w http.ResponseWriter, r *http.Request, route nav.Route) {
	variant, ok := model.Variant(route)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	ref, list := s.lookupInstance(route, r.URL.Query().Get("view"))
	records, loadErr := s.fetchSessions(r, variant.Scope)
	view := model.NewSessionListView(variant, records, list, model.FormContext{
		ViewToken: ref.token,
		CSRFField: csrf.TemplateField(r),
	})
	view.Error = loadErr

	data := sessionPageData{
		basePageData: s.basePageData(route, route.Label()),
		Variant:      variant,
		Columns:      model.ColumnHeaders,
		List:         view,
	}
	s.render(w, r, "sessions", data)
}

// handleDialog applies one open/close transition and redirects back to the
// page instance it belongs to.
func (s *server) handleDialog(w http.ResponseWriter, r *http.Request) {
	route, err := nav.Resolve("/" + chi.URLParam(r, "page"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	if _, ok := model.Variant(route); !ok {
		s.handleNotFound(w, r)
		return
	}
	dialog, err := state.ParseDialog(chi.URLParam(r, "dialog"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	action, err := state.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ref, err := s.resolveInstance(route, r.PostFormValue("view"))
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	list, err := s.store.Apply(ref.id, ref.owner, dialog, action)
	if errors.Is(err, state.ErrNotFound) {
		// evicted between lookup and apply
		ref, err = s.mount(route)
		if err == nil {
			list, err = s.store.Apply(ref.id, ref.owner, dialog, action)
		}
	}
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}

	s.metrics.transitions.WithLabelValues(string(dialog), string(action)).Inc()
	s.requestLog(r).WithCategory("views").
		WithField("page", route.Key()).
		WithField("dialog", string(dialog)).
		WithField("action", string(action)).
		WithField("quick_view", list.QuickView.String()).
		WithField("vote", list.Vote.String()).
		Info("dialog transition")

	http.Redirect(w, r, route.Path()+"?view="+url.QueryEscape(ref.token), http.StatusSeeOther)
}

// lookupInstance returns the live page instance named by token. A missing,
// forged, expired or other-page token yields an unmounted page with both
// dialogs closed; the instance is only created by the first transition.
func (s *server) lookupInstance(route nav.Route, token string) (instanceRef, state.ListState) {
	owner := route.Key()
	if id, err := s.tokens.Decode(owner, token); err == nil {
		if list, err := s.store.Get(id, owner); err == nil {
			return instanceRef{owner: owner, id: id, token: token}, list
		}
	}
	return instanceRef{owner: owner}, state.ListState{}
}

// resolveInstance is lookupInstance for transitions: it mounts a fresh
// instance when the token does not name a live one.
func (s *server) resolveInstance(route nav.Route, token string) (instanceRef, error) {
	if ref, _ := s.lookupInstance(route, token); ref.id != "" {
		return ref, nil
	}
	return s.mount(route)
}

func (s *server) mount(route nav.Route) (instanceRef, error) {
	owner := route.Key()
	id := s.store.Mount(owner)
	token, err := s.tokens.Encode(owner, id)
	if err != nil {
		s.store.Unmount(id)
		return instanceRef{}, fmt.Errorf("encode view token: %w", err)
	}
	s.metrics.mounts.Inc()
	return instanceRef{owner: owner, id: id, token: token}, nil
}

// fetchSessions loads records for scope. A failure is logged and reported as
// an inline message so the page still renders.
func (s *server) fetchSessions(r *http.Request, scope pricing.Scope) ([]pricing.SessionRecord, string) {
	records, err := s.sessions(r.Context(), scope)
	if err != nil {
		s.requestLog(r).WithCategory("sessions").WithField("scope", string(scope)).Error("load sessions", err)
		return nil, sessionsLoadError
	}
	return records, ""
}

func (s *server) sessions(ctx context.Context, scope pricing.Scope) ([]pricing.SessionRecord, error) {
	if s.source == nil {
		return nil, errors.New("session source unavailable")
	}
	return s.source.Sessions(ctx, scope)
}
