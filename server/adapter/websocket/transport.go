package adapterwebsocket

import (
	"context"

	"checklist/server/domain"

	"github.com/coder/websocket"
)

type wsTransport struct {
	conn *websocket.Conn
}

func NewTransportFrom(conn *websocket.Conn) domain.Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Read(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write はフレームを JSON テキストメッセージとして送ります。
func (t *wsTransport) Write(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, data)
}

func (t *wsTransport) Close(code int, reason string) error {
	return t.conn.Close(websocket.StatusCode(code), reason)
}
