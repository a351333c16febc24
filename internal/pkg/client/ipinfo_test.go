package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPublicIP(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("  203.0.113.7\n"))
	}))
	defer srv.Close()

	ip, err := NewIPLookupClient(srv.URL, time.Second).LookupPublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
	assert.True(t, strings.HasPrefix(gotUA, "portchecker/"))
}

func TestLookupPublicIP_Errors(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewIPLookupClient(srv.URL, time.Second).LookupPublicIP(context.Background())
		assert.ErrorContains(t, err, "429")
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		_, err := NewIPLookupClient(srv.URL, time.Second).LookupPublicIP(context.Background())
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := NewIPLookupClient(srv.URL, 100*time.Millisecond).LookupPublicIP(context.Background())
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewIPLookupClient(url, time.Second).LookupPublicIP(context.Background())
		assert.Error(t, err)
	})
}

func TestNewIPLookupClient_Defaults(t *testing.T) {
	c := NewIPLookupClient("", 0).(*ipLookupClient)
	assert.Equal(t, DefaultLookupURL, c.url)
	assert.Equal(t, DefaultLookupTimeout, c.client.Timeout)
}
