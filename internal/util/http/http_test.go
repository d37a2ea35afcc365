package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var gotAgent, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotHeader = r.Header.Get("X-Test")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("image-bytes"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("success", func(t *testing.T) {
		data, err := Fetch(context.Background(), srv.URL+"/ok", FetchOptions{Headers: map[string]string{"X-Test": "1"}})
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
		assert.True(t, strings.HasPrefix(gotAgent, UserAgentName+"/"))
		assert.Equal(t, "1", gotHeader)
	})

	t.Run("status error", func(t *testing.T) {
		_, err := Fetch(context.Background(), srv.URL+"/missing", FetchOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("body too large", func(t *testing.T) {
		_, err := Fetch(context.Background(), srv.URL+"/big", FetchOptions{MaxBytes: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})
}
