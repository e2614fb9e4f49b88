package channel

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 10 * time.Second

// gorillaDialer is the production Dialer, backed by gorilla/websocket.
type gorillaDialer struct{}

type gorillaConn struct {
	conn *websocket.Conn
}

func (d *gorillaDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &gorillaConn{conn: conn}, nil
}

func (g *gorillaConn) ReadMessage() ([]byte, error) {
	_, data, err := g.conn.ReadMessage()
	return data, err
}

func (g *gorillaConn) Close() error {
	return g.conn.Close()
}
