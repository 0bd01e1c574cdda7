// Package probe performs single reachability attempts against endpoint URLs.
//
// Probes are genuine timed requests. Any response from the origin counts as
// reachable, even an HTTP error status: the signal is liveness of the origin,
// not semantic health of the resource.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrUnsupportedScheme is returned for URLs no prober can handle.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Prober performs one connectivity attempt, bounded by the context deadline.
// A nil return means the origin answered.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// Dispatcher routes each probe to the prober matching the URL scheme.
type Dispatcher struct {
	http Prober
	ws   Prober
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		http: NewHTTPProber(nil),
		ws:   NewWebSocketProber(),
	}
}

// NewDispatcherWith allows injecting probers for tests.
func NewDispatcherWith(httpProber, wsProber Prober) *Dispatcher {
	return &Dispatcher{http: httpProber, ws: wsProber}
}

func (d *Dispatcher) Probe(ctx context.Context, rawURL string) error {
	scheme, err := Scheme(rawURL)
	if err != nil {
		return err
	}
	switch scheme {
	case "http", "https":
		return d.http.Probe(ctx, rawURL)
	case "ws", "wss":
		return d.ws.Probe(ctx, rawURL)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// Scheme validates a URL and returns its scheme. Used at registration time
// so malformed input fails fast at the boundary.
func Scheme(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("malformed URL %q: missing scheme or host", rawURL)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return u.Scheme, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}
