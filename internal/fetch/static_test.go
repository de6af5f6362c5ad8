package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticGetReturnsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{UserAgent: "events-bot/1.0", Timeout: 5 * time.Second})
	body, err := f.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, "events-bot/1.0", gotUA)
}

func TestStaticGetAllowsRepeatFetches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	// The same detail page can be reached through several sources, and
	// re-collection fetches every URL again.
	f := NewStatic(StaticConfig{Timeout: 5 * time.Second})
	for i := 0; i < 2; i++ {
		body, err := f.Get(context.Background(), srv.URL)
		require.NoError(t, err, "fetch %d", i+1)
		assert.Equal(t, "<html>ok</html>", body)
	}
	assert.Equal(t, 2, hits)
}

func TestStaticGetFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/target", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("landed"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/target", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewStatic(StaticConfig{Timeout: 5 * time.Second})
	body, err := f.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "landed", body)
}

func TestStaticGetRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{Timeout: 5 * time.Second})
	_, err := f.Get(context.Background(), srv.URL)

	require.Error(t, err)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestStaticGetConnectionFailure(t *testing.T) {
	f := NewStatic(StaticConfig{Timeout: 2 * time.Second})
	_, err := f.Get(context.Background(), "http://127.0.0.1:1")

	require.Error(t, err)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}
