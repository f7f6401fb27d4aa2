package nav

import "strings"

type Command int

const (
	CommandNone Command = iota
	CommandScrollTop
	CommandTick
	CommandNavigate
)

// Shortcut is the outcome of a key press.
type Shortcut struct {
	Command Command
	Route   string
}

// Shortcuts maps key presses to commands; route keys come from the route table.
type Shortcuts struct {
	routes map[string]string
}

func NewShortcuts(routes []Route) *Shortcuts {
	m := make(map[string]string, len(routes))
	for _, r := range routes {
		if r.Key != "" {
			m[strings.ToLower(r.Key)] = r.ID
		}
	}
	return &Shortcuts{routes: m}
}

// Dispatch ignores keys typed into form fields.
func (s *Shortcuts) Dispatch(key string, typing bool) Shortcut {
	if typing {
		return Shortcut{}
	}
	k := strings.ToLower(key)
	switch k {
	case "g":
		return Shortcut{Command: CommandScrollTop}
	case "m":
		return Shortcut{Command: CommandTick}
	}
	if id, ok := s.routes[k]; ok {
		return Shortcut{Command: CommandNavigate, Route: id}
	}
	return Shortcut{}
}
