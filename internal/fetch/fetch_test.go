// ABOUTME: Tests for the remote audio fetcher
// ABOUTME: Covers download, caching, HTTP errors and extension handling
package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T) *Fetcher {
	t.Helper()
	f, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return f
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://host/a.mp3"))
	assert.True(t, IsRemote("https://host/a.flac"))
	assert.False(t, IsRemote("a.mp3"))
	assert.False(t, IsRemote("ftp://host/a.mp3"))
	assert.False(t, IsRemote("tone"))
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	f := newFetcher(t)
	url := srv.URL + "/music/Track.MP3?token=abc"

	p1, err := f.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, ".mp3", filepath.Ext(p1))

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))

	p2, err := f.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.EqualValues(t, 1, requests.Load())
}

func TestFetchDistinctURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	f := newFetcher(t)
	a, err := f.Fetch(context.Background(), srv.URL+"/a.wav")
	require.NoError(t, err)
	b, err := f.Fetch(context.Background(), srv.URL+"/b.wav")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(f.cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed downloads leave nothing behind")
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newFetcher(t).Fetch(ctx, srv.URL+"/a.mp3")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	f, err := New(dir, nil)
	require.NoError(t, err)
	require.DirExists(t, dir)

	require.NoError(t, f.Cleanup())
	assert.NoDirExists(t, dir)
}
