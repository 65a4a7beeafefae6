package domain

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPingInterval はページへ ping を送る間隔の既定値です。
// DefaultIdleTimeout より十分短くないと、応答中のページもアイドル扱いになります。
const DefaultPingInterval = 10 * time.Second

// HeartbeatService はブリッジスクリプトへ ping を送り、pong を返させます。
// pong は SessionEndpoint の readLoop で受け取られ Session.TouchPong に反映されます。
type HeartbeatService struct {
	interval time.Duration
	session  *Session
	out      chan<- []byte
}

func NewHeartbeatService(interval time.Duration, session *Session, out chan<- []byte) *HeartbeatService {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	return &HeartbeatService{interval: interval, session: session, out: out}
}

// Run は ctx が終わるまで ping を送ります。
func (h *HeartbeatService) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ping(ctx)
		}
	}
}

// ping は書き込みキューが詰まっていれば送らずに捨てます。次の tick で再送されます。
func (h *HeartbeatService) ping(ctx context.Context) {
	id := h.session.ID()
	select {
	case h.out <- EncodePingMessage(id):
		slog.DebugContext(ctx, "heartbeat: ping queued", "sessionID", id)
	default:
		slog.WarnContext(ctx, "heartbeat: write queue full, ping skipped", "sessionID", id)
	}
}
