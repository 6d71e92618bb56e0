package netutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIPResolver_Memoizes(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("203.0.113.7\n"))
	}))
	defer server.Close()

	r := NewPublicIPResolver(server.URL, server.Client())

	ip, err := r.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)

	cidr, err := r.CIDR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7/32", cidr)
	assert.Equal(t, int32(1), hits.Load(), "lookup must happen once")
}

func TestPublicIPResolver_RetriesAfterFailure(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("203.0.113.7\n"))
	}))
	defer server.Close()

	r := NewPublicIPResolver(server.URL, server.Client())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.PublicIP(cancelled)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	ip, err := r.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)

	_, err = r.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "only the successful lookup is cached")
}

func TestPublicIPResolver_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusServiceUnavailable, "", "503"},
		{"not an address", http.StatusOK, "<html>", "not an IPv4 address"},
		{"ipv6 address", http.StatusOK, "2001:db8::1", "not an IPv4 address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewPublicIPResolver(server.URL, server.Client()).PublicIP(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewPublicIPResolver_Defaults(t *testing.T) {
	t.Parallel()
	r := NewPublicIPResolver("", nil)
	assert.Equal(t, DefaultPublicIPURL, r.url)
	assert.Equal(t, http.DefaultClient, r.httpClient)
}
