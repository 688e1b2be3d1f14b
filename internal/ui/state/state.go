// Package state tracks the dialog visibility of rendered session-list
// page instances.
package state

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDialog is returned for a dialog name other than quick-view or vote.
	ErrUnknownDialog = errors.New("state: unknown dialog")
	// ErrUnknownAction is returned for an action other than open or close.
	ErrUnknownAction = errors.New("state: unknown action")
)

// DialogState is the visibility of a single modal dialog.
type DialogState uint8

const (
	Closed DialogState = iota
	Open
)

func (d DialogState) String() string {
	if d == Open {
		return "open"
	}
	return "closed"
}

// IsOpen reports whether the dialog is showing.
func (d DialogState) IsOpen() bool {
	return d == Open
}

// Dialog names one of the two dialogs a session list owns.
type Dialog string

const (
	// QuickView is opened by a row's action button.
	QuickView Dialog = "quick-view"
	// Vote is opened by a row's view link.
	Vote Dialog = "vote"
)

// Action is a dialog transition.
type Action string

const (
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// ParseDialog validates a dialog name taken from a URL.
func ParseDialog(raw string) (Dialog, error) {
	switch d := Dialog(raw); d {
	case QuickView, Vote:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialog, raw)
	}
}

// ParseAction validates an action name taken from a URL.
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionOpen, ActionClose:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

// ListState holds the two independent dialogs of one session list. The zero
// value has both dialogs closed. Opening one dialog never closes the other.
type ListState struct {
	QuickView DialogState
	Vote      DialogState
}

func (s *ListState) OpenQuickView()  { s.QuickView = Open }
func (s *ListState) CloseQuickView() { s.QuickView = Closed }
func (s *ListState) OpenVote()       { s.Vote = Open }
func (s *ListState) CloseVote()      { s.Vote = Closed }

// Apply runs the transition named by dialog and action.
func (s *ListState) Apply(dialog Dialog, action Action) error {
	switch dialog {
	case QuickView:
		switch action {
		case ActionOpen:
			s.OpenQuickView()
		case ActionClose:
			s.CloseQuickView()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
	case Vote:
		switch action {
		case ActionOpen:
			s.OpenVote()
		case ActionClose:
			s.CloseVote()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDialog, dialog)
	}
	return nil
}
