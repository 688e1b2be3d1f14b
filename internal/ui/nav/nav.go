// Package nav defines the navigation shell: the brand, the links and the
// route table that picks exactly one page variant per path.
package nav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRoute is returned for paths outside the route table.
var ErrUnknownRoute = errors.New("nav: unknown route")

// Route is the single "current route" value selecting a page variant.
type Route int

const (
	Landing Route = iota
	Live
	MySessions
)

// Brand is the label shown at the left of the navigation bar.
const Brand = "Pricing Protocol"

type entry struct {
	route Route
	path  string
	label string
	// owner identifies the page for view-state ownership and template lookup.
	owner string
}

var table = []entry{
	{route: Landing, path: "/home", label: "Home", owner: "home"},
	{route: Live, path: "/live", label: "Live Sessions", owner: "live"},
	{route: MySessions, path: "/sessions", label: "My Sessions", owner: "sessions"},
}

// Routes returns every route in navigation order.
func Routes() []Route {
	out := make([]Route, len(table))
	for i, e := range table {
		out[i] = e.route
	}
	return out
}

func (r Route) entry() (entry, bool) {
	for _, e := range table {
		if e.route == r {
			return e, true
		}
	}
	return entry{}, false
}

// Path returns the canonical URL path of r.
func (r Route) Path() string {
	e, _ := r.entry()
	return e.path
}

// Label returns the link text of r.
func (r Route) Label() string {
	e, _ := r.entry()
	return e.label
}

// Key returns the short identifier of r, used to own page state.
func (r Route) Key() string {
	e, _ := r.entry()
	return e.owner
}

func (r Route) String() string {
	if k := r.Key(); k != "" {
		return k
	}
	return fmt.Sprintf("Route(%d)", int(r))
}

// Resolve maps a request path to its route. "/" is an alias of the landing page.
func Resolve(path string) (Route, error) {
	clean := strings.TrimSpace(path)
	if clean == "" || clean == "/" {
		return Landing, nil
	}
	clean = "/" + strings.Trim(clean, "/")
	for _, e := range table {
		if strings.EqualFold(e.path, clean) {
			return e.route, nil
		}
	}
	return Landing, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
}

// Link is one rendered navigation entry.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Links returns the navigation links with current marked active.
func Links(current Route) []Link {
	links := make([]Link, 0, len(table))
	for _, e := range table {
		links = append(links, Link{Label: e.label, Href: e.path, Active: e.route == current})
	}
	return links
}
