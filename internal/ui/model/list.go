package model

import (
	"github.com/Its-donkey/pricing-protocol/internal/pricing"
	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
	"github.com/Its-donkey/pricing-protocol/internal/ui/state"
)

// DialogAction returns the form target that applies action to dialog on the
// page at route.
func DialogAction(route nav.Route, dialog state.Dialog, action state.Action) string {
	return route.Path() + "/dialogs/" + string(dialog) + "/" + string(action)
}

// NewSessionListView maps records to rows in input order and attaches the
// dialogs of the variant in their current state.
func NewSessionListView(v PageVariant, records []pricing.SessionRecord, list state.ListState, form FormContext) SessionListView {
	rows := make([]SessionRowView, len(records))
	for i, rec := range records {
		rows[i] = SessionRowView{
			Index:        i,
			Record:       rec,
			ViewAction:   DialogAction(v.Route, state.Vote, state.ActionOpen),
			ActionAction: DialogAction(v.Route, state.QuickView, state.ActionOpen),
			Form:         form,
		}
	}
	return SessionListView{
		Rows:      rows,
		ViewToken: form.ViewToken,
		QuickView: DialogView{
			Name:        state.QuickView,
			Open:        list.QuickView.IsOpen(),
			Content:     v.QuickView,
			CloseAction: DialogAction(v.Route, state.QuickView, state.ActionClose),
			Form:        form,
		},
		Vote: DialogView{
			Name:        state.Vote,
			Open:        list.Vote.IsOpen(),
			Content:     v.Vote,
			CloseAction: DialogAction(v.Route, state.Vote, state.ActionClose),
			Form:        form,
		},
	}
}

// Variant returns the session page for route.
func Variant(route nav.Route) (PageVariant, bool) {
	v, ok := SessionVariants[route]
	return v, ok
}
