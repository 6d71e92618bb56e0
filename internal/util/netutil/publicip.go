package netutil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

// DefaultPublicIPURL answers plain-text requests with the caller's IPv4 address.
const DefaultPublicIPURL = "https://checkip.amazonaws.com"

// PublicIPResolver discovers the public IPv4 address of this host and
// returns the same answer for the lifetime of the resolver once a lookup
// has succeeded.
type PublicIPResolver struct {
	url        string
	httpClient *http.Client

	mu sync.Mutex
	ip string
}

// NewPublicIPResolver creates a resolver querying url (DefaultPublicIPURL when
// empty) with httpClient (http.DefaultClient when nil).
func NewPublicIPResolver(url string, httpClient *http.Client) *PublicIPResolver {
	if url == "" {
		url = DefaultPublicIPURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PublicIPResolver{url: url, httpClient: httpClient}
}

// PublicIP returns the host's public IPv4 address. Only a successful lookup
// is cached; after a failure the next call queries the service again.
func (r *PublicIPResolver) PublicIP(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ip != "" {
		return r.ip, nil
	}
	ip, err := r.lookup(ctx)
	if err != nil {
		return "", err
	}
	r.ip = ip
	return ip, nil
}

// CIDR returns the host's public address as a single-host /32 range.
func (r *PublicIPResolver) CIDR(ctx context.Context) (string, error) {
	ip, err := r.PublicIP(ctx)
	if err != nil {
		return "", err
	}
	return ip + "/32", nil
}

func (r *PublicIPResolver) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build public IP request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query public IP: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public IP service returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("failed to read public IP response: %w", err)
	}

	ip := strings.TrimSpace(string(body))
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return "", fmt.Errorf("public IP service returned %q, not an IPv4 address", ip)
	}
	return parsed.String(), nil
}
