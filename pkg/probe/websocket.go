package probe

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
)

// WebSocketProber checks ws(s) endpoints by completing a handshake and
// closing immediately. A completed handshake proves the origin answered.
type WebSocketProber struct{}

func NewWebSocketProber() *WebSocketProber { return &WebSocketProber{} }

func (p *WebSocketProber) Probe(ctx context.Context, rawURL string) error {
	conn, _, err := websocket.Dial(ctx, rawURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", rawURL, err)
	}
	_ = conn.Close(websocket.StatusNormalClosure, "probe")
	return nil
}
