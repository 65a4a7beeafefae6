package domain

import "context"

// StatusNormalClosure は websocket の正常終了コードです。
const StatusNormalClosure = 1000

// Connection は物理的な接続を表します。
type Connection struct {
	SessionID SessionID
	transport Transport
}

func NewConnection(sessionID SessionID, transport Transport) *Connection {
	return &Connection{
		SessionID: sessionID,
		transport: transport,
	}
}

func (c *Connection) Write(ctx context.Context, data []byte) error {
	return c.transport.Write(ctx, data)
}

func (c *Connection) Read(ctx context.Context) ([]byte, error) {
	return c.transport.Read(ctx)
}

func (c *Connection) Close(reason string) {
	_ = c.transport.Close(StatusNormalClosure, reason)
}
