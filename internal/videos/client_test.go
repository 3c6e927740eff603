package videos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "binary search", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type": "video", "title": "Binary Search in 10 Minutes", "videoId": "abc123", "author": "AlgoChannel", "lengthSeconds": 612, "viewCount": 120000},
			{"type": "channel", "title": "AlgoChannel"},
			{"type": "video", "title": "", "videoId": "def456", "lengthSeconds": 0, "viewCount": 0}
		]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.Search(context.Background(), "binary search", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Binary Search in 10 Minutes", got[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", got[0].Link)
	assert.Equal(t, "AlgoChannel", got[0].Channel)
	assert.Equal(t, "10:12", got[0].Duration)
	assert.Equal(t, "120000 views", got[0].Views)

	// Missing metadata falls back to defaults.
	assert.Equal(t, "No title", got[1].Title)
	assert.Equal(t, "Unknown", got[1].Channel)
	assert.Equal(t, "N/A", got[1].Duration)
	assert.Equal(t, "N/A", got[1].Views)
}

func TestSearch_RespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"videoId": "a", "title": "1"},
			{"videoId": "b", "title": "2"},
			{"videoId": "c", "title": "3"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.Search(context.Background(), "topic", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch_HTTPErrorReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "topic", 5)
	assert.Error(t, err)
}

func TestSearch_MalformedBodyReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "topic", 5)
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "N/A", formatDuration(0))
	assert.Equal(t, "0:45", formatDuration(45))
	assert.Equal(t, "10:12", formatDuration(612))
	assert.Equal(t, "1:01:05", formatDuration(3665))
}
