package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/screen"
)

type fakeScreen struct {
	name    string
	initRan bool
}

func (f *fakeScreen) Init() tea.Cmd {
	f.initRan = true
	return nil
}
func (f *fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return f, nil }
func (f *fakeScreen) View(int, int) string                    { return f.name }
func (f *fakeScreen) Title() string                           { return f.name }

// stack builds a router with home plus the named screens pushed on top.
func stack(names ...string) (*Router, []*fakeScreen) {
	home := &fakeScreen{name: "home"}
	r := New(home)
	screens := []*fakeScreen{home}
	for _, n := range names {
		s := &fakeScreen{name: n}
		r.Push(s)
		screens = append(screens, s)
	}
	return r, screens
}

func TestPushActivatesAndInits(t *testing.T) {
	r, screens := stack("topic")

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "topic" {
		t.Errorf("active = %q, want topic", r.Active().Title())
	}
	if !screens[1].initRan {
		t.Error("pushed screen's Init did not run")
	}
}

func TestPopReturnsToPrevious(t *testing.T) {
	r, _ := stack("topic")
	r.Pop()

	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("after pop: depth=%d active=%q, want home at depth 1", r.Depth(), r.Active().Title())
	}
}

func TestPopKeepsRoot(t *testing.T) {
	r, _ := stack()
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("depth = %d, the root must never pop", r.Depth())
	}
}

func TestPopToRootUnwindsDeepStacks(t *testing.T) {
	// home -> topic -> learn -> quiz is the deepest the flow gets.
	r, _ := stack("topic", "learn", "quiz")

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("after pop-to-root: depth=%d active=%q", r.Depth(), r.Active().Title())
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r, _ := stack("topic")

	learn := &fakeScreen{name: "learn"}
	r.Update(ReplaceScreenMsg{Screen: learn})

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2 after replace", r.Depth())
	}
	if r.Active().Title() != "learn" {
		t.Errorf("active = %q, want learn", r.Active().Title())
	}
	if !learn.initRan {
		t.Error("replacement screen's Init did not run")
	}
}

func TestNavigationMessages(t *testing.T) {
	r, _ := stack()

	topic := &fakeScreen{name: "topic"}
	r.Update(PushScreenMsg{Screen: topic})
	if r.Active().Title() != "topic" {
		t.Fatalf("active = %q after PushScreenMsg", r.Active().Title())
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "home" {
		t.Fatalf("active = %q after PopScreenMsg", r.Active().Title())
	}
}
