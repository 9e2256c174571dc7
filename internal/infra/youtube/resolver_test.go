package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTitle(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/dQw4w9WgXcQ":
			_, _ = w.Write([]byte(`<html><head><title>Never Gonna Give You Up - YouTube</title></head><body></body></html>`))
		case "/notitle0000":
			_, _ = w.Write([]byte(`<html><head></head><body></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := New(Config{BaseURL: srv.URL + "/"})
	ctx := context.Background()

	title, err := r.ResolveTitle(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", title)

	// Second resolution is served from cache.
	title, err = r.ResolveTitle(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", title)
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolveTitle_NoTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head></head><body></body></html>`))
	}))
	defer srv.Close()

	r := New(Config{BaseURL: srv.URL + "/"})

	_, err := r.ResolveTitle(context.Background(), "notitle0000")
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestResolveTitle_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := New(Config{BaseURL: srv.URL + "/"})

	_, err := r.ResolveTitle(context.Background(), "missing0000")
	assert.Error(t, err)
}
