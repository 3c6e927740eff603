package learning

import "testing"

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession()
	if s.SessionID == "" {
		t.Fatal("expected a session ID")
	}
	if s.CurrentStep != StepTopicInput {
		t.Fatalf("expected topic_input, got %s", s.CurrentStep)
	}
	if s.QuizAttempt != 1 {
		t.Fatalf("attempt counter starts at 1, got %d", s.QuizAttempt)
	}
	if s.UserAnswers == nil {
		t.Fatal("answers map must be initialized")
	}
}

func TestReset_ReplacesSessionID(t *testing.T) {
	s := NewSession()
	old := s.SessionID
	s.Topic = "Sorting"
	s.QuizAttempt = 4

	s.Reset()
	if s.SessionID == old {
		t.Fatal("reset must mint a new session ID")
	}
	if s.Topic != "" || s.QuizAttempt != 1 {
		t.Fatal("reset must clear session data")
	}
}

func TestVideoCursor_NextWrapsModuloLength(t *testing.T) {
	for _, length := range []int{1, 2, 3, 7} {
		for n := 0; n < 3*length; n++ {
			s := NewSession()
			s.Videos = sampleVideos(length)
			for i := 0; i < n; i++ {
				s.NextVideo()
			}
			if want := n % length; s.CurrentVideoIndex != want {
				t.Fatalf("length %d, %d nexts: index %d, want %d",
					length, n, s.CurrentVideoIndex, want)
			}
		}
	}
}

func TestVideoCursor_PrevFromZeroWrapsToLast(t *testing.T) {
	s := NewSession()
	s.Videos = sampleVideos(4)
	s.PrevVideo()
	if s.CurrentVideoIndex != 3 {
		t.Fatalf("expected index 3, got %d", s.CurrentVideoIndex)
	}
}

func TestVideoCursor_EmptyListNoop(t *testing.T) {
	s := NewSession()
	s.NextVideo()
	s.PrevVideo()
	if s.CurrentVideoIndex != 0 {
		t.Fatalf("cursor must stay at 0 on empty list, got %d", s.CurrentVideoIndex)
	}
	if _, ok := s.CurrentVideo(); ok {
		t.Fatal("CurrentVideo must report no video for empty list")
	}
}

func TestAnsweredAll(t *testing.T) {
	s := NewSession()
	s.Quiz = sampleQuiz()
	s.UserAnswers = map[int]int{0: 0, 1: 1, 2: 2, 3: 3}
	if s.AnsweredAll() {
		t.Fatal("4 of 5 answered must not count as complete")
	}
	s.UserAnswers[4] = 0
	if !s.AnsweredAll() {
		t.Fatal("all 5 answered must count as complete")
	}
}
