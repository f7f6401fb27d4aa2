// Package nav tracks which page route is active and what the route context
// panel, badges and breadcrumb should say.
package nav

import "strings"

const (
	StateActive = "ACTIVE"
	StateLive   = "LIVE"

	breadcrumbRoot = "AFS"
)

type Route struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Href       string `json:"href"`
	Desc       string `json:"desc"`
	Key        string `json:"key"`
	Breadcrumb string `json:"breadcrumb,omitempty"`
	State      string `json:"state,omitempty"` // shown on the badge when not active
}

func DefaultRoutes() []Route {
	return []Route{
		{ID: "home", Name: "Home", Href: "index.html", Key: "1", Desc: "Society overview and live market board"},
		{ID: "events", Name: "Events", Href: "events.html", Key: "2", Desc: "Talks, workshops and trading competitions"},
		{ID: "resources", Name: "Resources", Href: "resources.html", Key: "3", Desc: "Reading lists, notes and datasets"},
		{ID: "contact", Name: "Contact", Href: "contact.html", Key: "4", Desc: "Reach the core team"},
	}
}

// Context is the panel describing the hovered or active route.
type Context struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Status string `json:"status"`
	Key    string `json:"key"`
}

type State struct {
	Active     string            `json:"active"`
	Href       string            `json:"href,omitempty"`
	Badges     map[string]string `json:"badges"`
	Breadcrumb string            `json:"breadcrumb"`
	Context    Context           `json:"context"`
}

type Navigator struct {
	routes     []Route
	active     string
	context    Context
	breadcrumb string
}

// NewNavigator activates the first route.
func NewNavigator(routes []Route) *Navigator {
	n := &Navigator{routes: routes}
	if len(routes) > 0 {
		n.SetActive(routes[0].ID)
	}
	return n
}

func (n *Navigator) Route(id string) (Route, bool) {
	for _, r := range n.routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

// SetActive makes id the only active route. Unknown ids are ignored.
func (n *Navigator) SetActive(id string) bool {
	r, ok := n.Route(id)
	if !ok {
		return false
	}
	n.active = id
	n.context = n.contextFor(r)
	n.breadcrumb = breadcrumbRoot + " // " + crumb(r)
	return true
}

// Preview shows a route's context without activating it (hover, focus).
func (n *Navigator) Preview(id string) bool {
	r, ok := n.Route(id)
	if !ok {
		return false
	}
	n.context = n.contextFor(r)
	return true
}

// RestoreContext puts the active route back in the context panel.
func (n *Navigator) RestoreContext() {
	if r, ok := n.Route(n.active); ok {
		n.context = n.contextFor(r)
	}
}

func (n *Navigator) Active() string { return n.active }

func (n *Navigator) State() State {
	badges := make(map[string]string, len(n.routes))
	for _, r := range n.routes {
		badges[r.ID] = n.status(r)
	}
	st := State{
		Active:     n.active,
		Badges:     badges,
		Breadcrumb: n.breadcrumb,
		Context:    n.context,
	}
	if r, ok := n.Route(n.active); ok {
		st.Href = r.Href
	}
	return st
}

func (n *Navigator) contextFor(r Route) Context {
	key := r.Key
	if key == "" {
		key = "-"
	}
	name := r.Name
	if name == "" {
		name = r.ID
	}
	return Context{Name: name, Desc: r.Desc, Status: n.status(r), Key: "[" + key + "]"}
}

func (n *Navigator) status(r Route) string {
	if r.ID == n.active {
		return StateActive
	}
	if r.State != "" {
		return r.State
	}
	return StateLive
}

func crumb(r Route) string {
	if r.Breadcrumb != "" {
		return r.Breadcrumb
	}
	if r.ID == "" {
		return "HOME"
	}
	return strings.ToUpper(r.ID)
}
