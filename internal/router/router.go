package router

import (
	"github.com/tutora-app/tutora/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// Navigation messages. Screens emit these as commands instead of
// holding a reference to the router.
type (
	// PushScreenMsg stacks a new screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }

	// PopScreenMsg returns to the screen underneath.
	PopScreenMsg struct{}

	// PopToRootMsg unwinds the whole stack back to the home screen,
	// however deep the learn/quiz flow got.
	PopToRootMsg struct{}

	// ReplaceScreenMsg swaps the active screen in place, keeping the
	// screens below it.
	ReplaceScreenMsg struct{ Screen screen.Screen }
)

// Router owns the screen stack. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Active is the screen currently receiving messages.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// Push stacks s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the active screen. The root stays put.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

// PopToRoot drops everything above the home screen.
func (r *Router) PopToRoot() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:1]
	}
	return nil
}

// Replace swaps the active screen and runs the new screen's Init. On
// an empty stack it degrades to a Push.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Update intercepts navigation messages; everything else goes to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case PopToRootMsg:
		return r.PopToRoot()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
