package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/router"
	"github.com/tutora-app/tutora/internal/screen"
)

type homeStub struct{}

func (h *homeStub) Init() tea.Cmd                           { return nil }
func (h *homeStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (h *homeStub) View(int, int) string                    { return "home" }
func (h *homeStub) Title() string                           { return "Home" }

func splashScreen() (*WelcomeScreen, *int) {
	builds := 0
	w := New(func() screen.Screen {
		builds++
		return &homeStub{}
	})
	return w, &builds
}

func advance(w *WelcomeScreen, ticks int) {
	for range ticks {
		w.Update(tickMsg(time.Now()))
	}
}

func TestSplashPhases(t *testing.T) {
	w, _ := splashScreen()

	if view := w.View(80, 24); strings.Contains(view, "one topic at a time") {
		t.Error("tagline must not show before its phase")
	}

	// 500ms in, the banner joins the owl. Narrow terminals get the
	// compact wordmark, which is easy to assert on.
	advance(w, 5)
	if view := w.View(40, 24); !strings.Contains(view, "T U T O R A") {
		t.Error("expected banner content after 500ms")
	}

	// 1200ms in, the tagline starts typing out.
	advance(w, 8)
	if view := w.View(80, 24); !strings.Contains(view, "press any key") {
		t.Error("expected the key hint once the tagline phase starts")
	}

	// Eventually the whole tagline is on screen.
	advance(w, 20)
	if view := w.View(80, 24); !strings.Contains(view, "one topic at a time") {
		t.Error("expected the full tagline late in the splash")
	}
}

func TestTaglineTypesOut(t *testing.T) {
	w, _ := splashScreen()

	advance(w, 13) // 1300ms: one tick into the tagline phase
	partial := w.typedTagline()
	if partial == tagline {
		t.Fatalf("tagline fully visible too early: %q", partial)
	}
	if !strings.HasPrefix(tagline, partial) {
		t.Fatalf("typed text %q is not a prefix of the tagline", partial)
	}

	advance(w, 30)
	if got := w.typedTagline(); got != tagline {
		t.Fatalf("tagline = %q after the splash, want complete", got)
	}
}

func TestKeySkipsToHome(t *testing.T) {
	w, builds := splashScreen()
	advance(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("a key mid-splash must produce the transition command")
	}
	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replace.Screen == nil {
		t.Error("replacement screen is nil")
	}
	if *builds != 1 {
		t.Errorf("home factory ran %d times, want 1", *builds)
	}
}

func TestNoTransitionWithoutKey(t *testing.T) {
	w, builds := splashScreen()

	advance(w, 60) // well past the splash duration
	if *builds != 0 {
		t.Errorf("home factory ran %d times without a key press", *builds)
	}
	if w.elapsed != splashFor {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, splashFor)
	}
}

func TestTransitionFiresOnce(t *testing.T) {
	w, builds := splashScreen()
	advance(w, 60)

	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second key press must not produce another transition")
	}
	if *builds != 1 {
		t.Errorf("home factory ran %d times, want exactly 1", *builds)
	}
}

func TestSplashHasNoTitle(t *testing.T) {
	w, _ := splashScreen()
	if w.Title() != "" {
		t.Errorf("title = %q, want empty during the splash", w.Title())
	}
}
