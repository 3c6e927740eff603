package learn

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/tutora-app/tutora/internal/learning"
	"github.com/tutora-app/tutora/internal/screen"
	"github.com/tutora-app/tutora/internal/screens/placeholder"
	"github.com/tutora-app/tutora/internal/videos"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func sampleVideos(n int) []videos.Video {
	vs := make([]videos.Video, n)
	for i := range vs {
		vs[i] = videos.Video{
			Title:   fmt.Sprintf("Video %d", i+1),
			Link:    fmt.Sprintf("https://example.com/%d", i+1),
			Channel: "Learning Channel",
		}
	}
	return vs
}

// fetchingSession builds a session that just had its topic refined.
func fetchingSession(t *testing.T) *learning.SessionData {
	t.Helper()
	s := learning.NewSession()
	for _, ev := range []learning.Event{
		learning.SubmitTopic{Input: "dns"},
		learning.TopicRefined{Topic: "How DNS works"},
	} {
		if _, err := learning.Apply(s, ev); err != nil {
			t.Fatalf("Apply(%T): %v", ev, err)
		}
	}
	return s
}

func testLearnScreen(t *testing.T) *LearnScreen {
	return New(fetchingSession(t), nil, nil, nil, func() screen.Screen {
		return placeholder.New("topic")
	})
}

func TestLearnScreen_Init_FetchesMissingContent(t *testing.T) {
	s := testLearnScreen(t)
	cmd := s.Init()

	if cmd == nil {
		t.Fatal("expected fetch commands")
	}
	if s.pendingFetch != 2 {
		t.Errorf("pendingFetch = %d, want 2", s.pendingFetch)
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty loading view")
	}
}

func TestLearnScreen_Init_SkipsCachedContent(t *testing.T) {
	s := testLearnScreen(t)
	if _, err := learning.Apply(s.sess, learning.ContentReady{
		Videos:        sampleVideos(2),
		Documentation: "docs",
	}); err != nil {
		t.Fatal(err)
	}
	// Pretend the quiz flow brought us back through fetch.
	s.sess.CurrentStep = learning.StepFetchContent

	s.Init()
	if s.pendingFetch != 0 {
		t.Errorf("pendingFetch = %d, want 0", s.pendingFetch)
	}
	if s.sess.CurrentStep != learning.StepLearning {
		t.Errorf("step = %s, want learning", s.sess.CurrentStep)
	}
}

func TestLearnScreen_ContentReady_AfterBothFetches(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()

	s.Update(videosFetchedMsg{Videos: sampleVideos(3)})
	if s.sess.CurrentStep != learning.StepFetchContent {
		t.Error("expected to still be fetching after videos only")
	}

	s.Update(docsReadyMsg{Docs: "# DNS\nResolvers and zones."})
	if s.sess.CurrentStep != learning.StepLearning {
		t.Errorf("step = %s, want learning", s.sess.CurrentStep)
	}
	if len(s.sess.Videos) != 3 {
		t.Errorf("videos = %d, want 3", len(s.sess.Videos))
	}
	if s.sess.Documentation == "" {
		t.Error("expected documentation set")
	}
}

func TestLearnScreen_VideoFetchFailure_IsNotFatal(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()

	s.Update(videosFetchedMsg{Err: fmt.Errorf("search unavailable")})
	s.Update(docsReadyMsg{Docs: "docs"})

	if s.sess.CurrentStep != learning.StepLearning {
		t.Errorf("step = %s, want learning despite video failure", s.sess.CurrentStep)
	}
	if s.errMsg == "" {
		t.Error("expected visible error message")
	}
}

func TestLearnScreen_VideoNavigationWraps(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()
	s.Update(videosFetchedMsg{Videos: sampleVideos(2)})
	s.Update(docsReadyMsg{Docs: "docs"})

	s.activeTab = tabVideos
	s.Update(keyPress('n'))
	if s.sess.CurrentVideoIndex != 1 {
		t.Errorf("index = %d, want 1", s.sess.CurrentVideoIndex)
	}
	s.Update(keyPress('n'))
	if s.sess.CurrentVideoIndex != 0 {
		t.Errorf("index = %d, want 0 after wrap", s.sess.CurrentVideoIndex)
	}
	s.Update(keyPress('p'))
	if s.sess.CurrentVideoIndex != 1 {
		t.Errorf("index = %d, want 1 after wrapping back", s.sess.CurrentVideoIndex)
	}
}

func TestLearnScreen_TabCycling(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()
	s.Update(videosFetchedMsg{Videos: nil})
	s.Update(docsReadyMsg{Docs: "docs"})

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	if s.activeTab != tabVideos {
		t.Errorf("tab = %d, want videos", s.activeTab)
	}
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	if s.activeTab != tabChat {
		t.Errorf("tab = %d, want chat", s.activeTab)
	}
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	if s.activeTab != tabDocs {
		t.Errorf("tab = %d, want docs after cycling", s.activeTab)
	}
}

func TestLearnScreen_AskQuestion(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()
	s.Update(videosFetchedMsg{Videos: nil})
	s.Update(docsReadyMsg{Docs: "docs"})

	s.activeTab = tabChat
	s.chatInput.Model.SetValue("what is a resolver?")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected answer command")
	}
	if !s.chatWaiting {
		t.Error("expected waiting state")
	}
	if s.sess.PendingQuestion != "what is a resolver?" {
		t.Errorf("pending question = %q", s.sess.PendingQuestion)
	}

	s.Update(answerReadyMsg{Answer: "It looks up names for you."})
	if s.chatWaiting {
		t.Error("expected waiting cleared")
	}
	if len(s.sess.ChatHistory) != 1 {
		t.Fatalf("chat history = %d, want 1", len(s.sess.ChatHistory))
	}
	if s.sess.ChatHistory[0].Answer != "It looks up names for you." {
		t.Errorf("answer = %q", s.sess.ChatHistory[0].Answer)
	}
}

func TestLearnScreen_StartQuiz(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()
	s.Update(videosFetchedMsg{Videos: sampleVideos(1)})
	s.Update(docsReadyMsg{Docs: "docs"})

	_, cmd := s.Update(keyPress('s'))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if s.sess.CurrentStep != learning.StepGenerateQuiz {
		t.Errorf("step = %s, want generate_quiz", s.sess.CurrentStep)
	}
}

func TestLearnScreen_StartQuizBlockedWhileFetching(t *testing.T) {
	s := testLearnScreen(t)
	s.Init()

	_, cmd := s.Update(keyPress('s'))
	if cmd != nil {
		t.Error("expected no command while content is loading")
	}
	if s.sess.CurrentStep != learning.StepFetchContent {
		t.Errorf("step = %s, want fetch_content", s.sess.CurrentStep)
	}
}
