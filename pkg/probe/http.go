package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPProber checks http(s) endpoints with a timed HEAD request, falling
// back to GET when the server rejects HEAD outright. Response status is
// deliberately not inspected beyond the fallback decision: a 404 still
// proves the origin is up.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates an HTTP prober. A nil client uses a default client;
// per-attempt deadlines come from the probe context, not the client.
func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPProber{client: client}
}

func (p *HTTPProber) Probe(ctx context.Context, rawURL string) error {
	resp, err := p.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return err
	}

	// Some servers refuse HEAD while serving GET fine.
	if resp == http.StatusMethodNotAllowed || resp == http.StatusNotImplemented {
		if _, err := p.do(ctx, http.MethodGet, rawURL); err != nil {
			return err
		}
	}
	return nil
}

func (p *HTTPProber) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build %s request for %s: %w", method, rawURL, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}
