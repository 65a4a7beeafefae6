package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("write channel is full, apply backpressure")
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
)

// DefaultIdleTimeout を超えて無通信のセッションは閉じられます。
const DefaultIdleTimeout = 30 * time.Second

type EndpointOption func(*SessionEndpoint)

func WithPingInterval(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.pingInterval = d }
}

func WithIdleTimeout(d time.Duration) EndpointOption {
	return func(se *SessionEndpoint) { se.idleTimeout = d }
}

// SessionEndpoint はページ1枚分の接続を駆動します。
type SessionEndpoint struct {
	ctx    context.Context
	cancel context.CancelFunc

	session    *Session
	connection *Connection
	pubsub     PubSub
	dispatcher Dispatcher
	registry   SessionRegistry

	pingInterval time.Duration
	idleTimeout  time.Duration

	ctrlCh  chan endpointEvent // 制御用チャネル
	writeCh chan []byte        // 書き込み用チャネル

	// lifecycle
	closed atomic.Bool
}

func NewSessionEndpoint(ctx context.Context, session *Session, connection *Connection, pubsub PubSub, dispatcher Dispatcher, registry SessionRegistry, opts ...EndpointOption) (*SessionEndpoint, error) {
	if session == nil || connection == nil || pubsub == nil || dispatcher == nil || registry == nil {
		return nil, ErrInitializationFailed
	}
	ctx, cancel := context.WithCancel(ctx)
	se := &SessionEndpoint{
		ctx:          ctx,
		cancel:       cancel,
		session:      session,
		connection:   connection,
		pubsub:       pubsub,
		dispatcher:   dispatcher,
		registry:     registry,
		pingInterval: DefaultPingInterval,
		idleTimeout:  DefaultIdleTimeout,
		ctrlCh:       make(chan endpointEvent, 16),
		writeCh:      make(chan []byte, 1024),
	}
	for _, opt := range opts {
		opt(se)
	}
	return se, nil
}

// Run は接続が閉じられるまでブロックします。
func (se *SessionEndpoint) Run() error {
	sessionTopic := SessionTopic(se.session.ID())
	directCh := se.pubsub.Subscribe(sessionTopic)
	defer se.pubsub.Unsubscribe(sessionTopic, directCh)
	broadcastCh := se.pubsub.Subscribe(BroadcastTopic)
	defer se.pubsub.Unsubscribe(BroadcastTopic, broadcastCh)

	// 購読してから登録しないと getForm を取りこぼす
	se.registry.Join(se.session.ID())
	defer se.registry.Leave(se.session.ID())
	defer se.close()

	if err := se.Send(EncodeAssignMessage(se.session.ID())); err != nil {
		return err
	}

	heartbeat := NewHeartbeatService(se.pingInterval, se.session, se.writeCh)

	eg, ctx := errgroup.WithContext(se.ctx)
	eg.Go(func() error {
		se.ownerLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.readLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.writeLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		se.subscribeLoop(ctx, directCh)
		return nil
	})
	eg.Go(func() error {
		se.subscribeLoop(ctx, broadcastCh)
		return nil
	})
	eg.Go(func() error {
		heartbeat.Run(ctx)
		return nil
	})
	return eg.Wait()
}

func (se *SessionEndpoint) Send(data []byte) error {
	select {
	case se.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

// ownerLoop は論理セッションの状態を監視し、必要に応じて接続の管理を行います。
func (se *SessionEndpoint) ownerLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-se.ctrlCh:
			se.handleControlEvent(ctx, ev)
		case <-ticker.C:
			if ok, reason := se.session.IsIdle(se.idleTimeout); ok {
				slog.InfoContext(ctx, "closing idle session", "sessionID", se.session.ID(), "reason", reason)
				se.handleControlEvent(ctx, endpointEvent{
					kind: evClose,
					err:  errors.New(reason.String()),
				})
			}
		}
	}
}

func (se *SessionEndpoint) readLoop(ctx context.Context) {
	for {
		data, err := se.connection.Read(ctx)
		if err != nil {
			se.sendCtrlEvent(ctx, endpointEvent{kind: evReadError, err: err})
			return
		}
		se.session.TouchRead()
		se.handleData(ctx, data)
	}
}

func (se *SessionEndpoint) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-se.writeCh:
			if err := se.connection.Write(ctx, data); err != nil {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evWriteError, err: err})
				return
			}
			se.session.TouchWrite()
		}
	}
}

// subscribeLoop はpubsubからのメッセージをwriteChに転送します。
func (se *SessionEndpoint) subscribeLoop(ctx context.Context, msgCh <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			select {
			case se.writeCh <- msg.Data:
			default:
				slog.WarnContext(ctx, "subscribeLoop: writeCh full, message dropped", "sessionID", se.session.ID())
			}
		}
	}
}

func (se *SessionEndpoint) close() {
	if !se.closed.CompareAndSwap(false, true) {
		return
	}
	se.cancel()
	se.session.Close()
	se.connection.Close("session closed")
}

func (se *SessionEndpoint) handleData(ctx context.Context, data []byte) {
	frame, err := ParseFrame(data)
	if err != nil {
		slog.WarnContext(ctx, "failed to parse frame", "sessionID", se.session.ID(), "err", err)
		return
	}
	if frame.Type == FramePong {
		se.sendCtrlEvent(ctx, endpointEvent{kind: evPong})
		return
	}
	if err := se.dispatcher.Dispatch(ctx, se.session.ID(), frame); err != nil {
		slog.WarnContext(ctx, "failed to dispatch frame", "sessionID", se.session.ID(), "type", frame.Type, "err", err)
	}
}

// handleControlEvent は制御チャネルからのイベントを処理し論理セッションの状態を更新する唯一の関数です。
func (se *SessionEndpoint) handleControlEvent(ctx context.Context, ev endpointEvent) {
	switch ev.kind {
	case evPong:
		se.session.TouchPong()
	case evClose:
		se.close()
	case evReadError, evWriteError:
		slog.DebugContext(ctx, "connection lost", "sessionID", se.session.ID(), "event", ev.kind, "err", ev.err)
		se.close()
	default:
		slog.WarnContext(ctx, "unknown endpoint event kind", "kind", ev.kind)
	}
}

func (se *SessionEndpoint) sendCtrlEvent(ctx context.Context, ev endpointEvent) {
	select {
	case se.ctrlCh <- ev:
	case <-ctx.Done():
	}
}
