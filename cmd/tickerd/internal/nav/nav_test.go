package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/nav"
)

func TestNavigator_InitialState(t *testing.T) {
	n := nav.NewNavigator(nav.DefaultRoutes())

	st := n.State()
	assert.Equal(t, "home", st.Active)
	assert.Equal(t, "AFS // HOME", st.Breadcrumb)
	assert.Equal(t, nav.Context{Name: "Home", Desc: "Society overview and live market board", Status: "ACTIVE", Key: "[1]"}, st.Context)
	assert.Equal(t, "index.html", st.Href)
}

func TestNavigator_SetActive_ExactlyOneActive(t *testing.T) {
	n := nav.NewNavigator(nav.DefaultRoutes())

	require.True(t, n.SetActive("events"))

	st := n.State()
	active := 0
	for id, badge := range st.Badges {
		if badge == nav.StateActive {
			active++
			assert.Equal(t, "events", id)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, "LIVE", st.Badges["home"])
	assert.Equal(t, "AFS // EVENTS", st.Breadcrumb)
}

func TestNavigator_UnknownRouteIgnored(t *testing.T) {
	n := nav.NewNavigator(nav.DefaultRoutes())

	assert.False(t, n.SetActive("admin"))
	assert.False(t, n.Preview("admin"))
	assert.Equal(t, "home", n.Active())
}

func TestNavigator_PreviewAndRestore(t *testing.T) {
	n := nav.NewNavigator(nav.DefaultRoutes())

	require.True(t, n.Preview("contact"))
	st := n.State()
	assert.Equal(t, "home", st.Active, "preview must not activate")
	assert.Equal(t, "Contact", st.Context.Name)
	assert.Equal(t, "LIVE", st.Context.Status)
	assert.Equal(t, "[4]", st.Context.Key)

	n.RestoreContext()
	assert.Equal(t, "Home", n.State().Context.Name)
}

func TestNavigator_CustomRouteFallbacks(t *testing.T) {
	n := nav.NewNavigator([]nav.Route{
		{ID: "lab", State: "BETA"},
		{ID: "news", Breadcrumb: "NEWSROOM"},
	})

	assert.Equal(t, "AFS // LAB", n.State().Breadcrumb)
	assert.Equal(t, "[-]", n.State().Context.Key)
	assert.Equal(t, "lab", n.State().Context.Name)

	n.SetActive("news")
	st := n.State()
	assert.Equal(t, "AFS // NEWSROOM", st.Breadcrumb)
	assert.Equal(t, "BETA", st.Badges["lab"])
}

func TestShortcuts_Dispatch(t *testing.T) {
	s := nav.NewShortcuts(nav.DefaultRoutes())

	tests := []struct {
		key    string
		typing bool
		want   nav.Shortcut
	}{
		{key: "g", want: nav.Shortcut{Command: nav.CommandScrollTop}},
		{key: "G", want: nav.Shortcut{Command: nav.CommandScrollTop}},
		{key: "m", want: nav.Shortcut{Command: nav.CommandTick}},
		{key: "2", want: nav.Shortcut{Command: nav.CommandNavigate, Route: "events"}},
		{key: "4", want: nav.Shortcut{Command: nav.CommandNavigate, Route: "contact"}},
		{key: "9", want: nav.Shortcut{}},
		{key: "m", typing: true, want: nav.Shortcut{}},
		{key: "1", typing: true, want: nav.Shortcut{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Dispatch(tt.key, tt.typing), "key=%q typing=%v", tt.key, tt.typing)
	}
}
