package handler

import (
	"log/slog"
	"net/http"

	adapterwebsocket "checklist/server/adapter/websocket"
	"checklist/server/domain"

	"github.com/coder/websocket"
)

type AcceptHandler struct {
	pubsub domain.PubSub
	hub    *domain.Hub
	secret []byte
	opts   []domain.EndpointOption
}

// NewAcceptHandler はページの websocket 接続を受け付けます。
// secret が設定されている場合、トークンの無いページは表示だけを受け取り arm と url は送れません。
func NewAcceptHandler(pubsub domain.PubSub, hub *domain.Hub, secret []byte, opts ...domain.EndpointOption) *AcceptHandler {
	return &AcceptHandler{pubsub: pubsub, hub: hub, secret: secret, opts: opts}
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trusted := true
	if len(h.secret) > 0 {
		if err := verifyUpgrade(r, h.secret); err != nil {
			slog.WarnContext(ctx, "display without valid token, control frames disabled", "err", err)
			trusted = false
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// ブリッジスクリプトはチェックリストサイトのオリジンから接続してくる
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	session := domain.NewSession()
	transport := adapterwebsocket.NewTransportFrom(conn)
	connection := domain.NewConnection(session.ID(), transport)
	endpoint, err := domain.NewSessionEndpoint(ctx, session, connection, h.pubsub, h.hub, h.hub, h.opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session endpoint", "err", err)
		connection.Close("internal error")
		return
	}
	if trusted {
		h.hub.Trust(session.ID())
		defer h.hub.Leave(session.ID())
	}
	slog.InfoContext(ctx, "display connected", "sessionID", session.ID(), "trusted", trusted)
	if err := endpoint.Run(); err != nil {
		slog.ErrorContext(ctx, "failed to run session endpoint", "sessionID", session.ID(), "err", err)
		return
	}
	slog.InfoContext(ctx, "display disconnected", "sessionID", session.ID())
}
