package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	core "checklist/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("checklist/server/domain")

var (
	// ErrNoDisplay は接続中のページが無い場合に返されるエラーです。
	ErrNoDisplay = errors.New("hub: no display connected")
	// ErrFormTimeout はページが時間内に getForm に応答しなかった場合に返されるエラーです。
	ErrFormTimeout = errors.New("hub: form query timed out")
	// ErrFormUnresolved はページが空のフォームを返した場合に返されるエラーです。
	ErrFormUnresolved = errors.New("hub: form unresolved")
	// ErrUntrustedSession は認証されていないページが操作フレームを送った場合に返されるエラーです。
	ErrUntrustedSession = errors.New("hub: control frame from untrusted session")
)

// DefaultFormTimeout は getForm の応答待ち時間の既定値です。
const DefaultFormTimeout = 500 * time.Millisecond

// Controller はページからの操作要求を受け付けます。
type Controller interface {
	Arm(ctx context.Context) error
}

// Hub は接続中のチェックリストページ群を1つの表示先として扱います。
type Hub struct {
	pubsub      PubSub
	formTimeout time.Duration

	mu         sync.Mutex
	sessions   []SessionID // 接続順
	trusted    map[SessionID]struct{}
	pending    map[string]pendingForm
	urlSuffix  string
	controller Controller
}

// pendingForm は getForm の応答待ちです。問い合わせ先以外からの応答は捨てます。
type pendingForm struct {
	session SessionID
	reply   chan string
}

var (
	_ core.Display    = (*Hub)(nil)
	_ Dispatcher      = (*Hub)(nil)
	_ SessionRegistry = (*Hub)(nil)
)

func NewHub(pubsub PubSub, formTimeout time.Duration, urlSuffix string) *Hub {
	if formTimeout <= 0 {
		formTimeout = DefaultFormTimeout
	}
	return &Hub{
		pubsub:      pubsub,
		formTimeout: formTimeout,
		trusted:     make(map[SessionID]struct{}),
		pending:     make(map[string]pendingForm),
		urlSuffix:   urlSuffix,
	}
}

// SetController はページからの arm 要求の送り先を設定します。
func (h *Hub) SetController(c Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controller = c
}

func (h *Hub) Join(sessionID SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = append(h.sessions, sessionID)
}

// Trust は sessionID に arm と url の送信を許可します。Leave で取り消されます。
func (h *Hub) Trust(sessionID SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trusted[sessionID] = struct{}{}
}

func (h *Hub) trusts(sessionID SessionID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.trusted[sessionID]
	return ok
}

func (h *Hub) Leave(sessionID SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.trusted, sessionID)
	h.sessions = slices.DeleteFunc(h.sessions, func(id SessionID) bool { return id == sessionID })
}

func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) URLSuffix() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.urlSuffix
}

func (h *Hub) SetURLSuffix(suffix string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.urlSuffix = suffix
}

func (h *Hub) ResetDisplay(ctx context.Context) error {
	h.pubsub.Publish(ctx, BroadcastTopic, Message{Data: EncodeResetMessage()})
	return nil
}

func (h *Hub) MarkDefeated(ctx context.Context, name string) error {
	h.pubsub.Publish(ctx, BroadcastTopic, Message{Data: EncodeCheckMessage(name)})
	return nil
}

// ResolveForm は最後に接続したページへ getForm を問い合わせ、応答を待ちます。
func (h *Hub) ResolveForm(ctx context.Context, group string) (form string, err error) {
	ctx, span := tracer.Start(ctx, "hub.ResolveForm", trace.WithAttributes(attribute.String("form.group", group)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("form.value", form))
		}
		span.End()
	}()

	h.mu.Lock()
	if len(h.sessions) == 0 {
		h.mu.Unlock()
		return "", ErrNoDisplay
	}
	target := h.sessions[len(h.sessions)-1]
	requestID := uuid.NewString()
	replyCh := make(chan string, 1)
	h.pending[requestID] = pendingForm{session: target, reply: replyCh}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.pending, requestID)
		h.mu.Unlock()
	}()

	msg := Message{SessionID: target, Data: EncodeFormQuery(requestID, group)}
	if h.pubsub.Publish(ctx, SessionTopic(target), msg) == 0 {
		return "", ErrNoDisplay
	}

	timer := time.NewTimer(h.formTimeout)
	defer timer.Stop()
	select {
	case value := <-replyCh:
		if value == "" {
			return "", fmt.Errorf("%w: %s", ErrFormUnresolved, group)
		}
		return value, nil
	case <-timer.C:
		return "", fmt.Errorf("%w: %s", ErrFormTimeout, group)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Dispatch はページから届いたフレームを処理します。
func (h *Hub) Dispatch(ctx context.Context, sessionID SessionID, frame Frame) error {
	switch frame.Type {
	case FrameFormReply:
		h.mu.Lock()
		p, ok := h.pending[frame.ID]
		h.mu.Unlock()
		if !ok || p.session != sessionID {
			slog.DebugContext(ctx, "hub: stale form reply", "sessionID", sessionID, "requestID", frame.ID)
			return nil
		}
		select {
		case p.reply <- frame.Value:
		default:
		}
	case FrameURL, FrameArm:
		if !h.trusts(sessionID) {
			return fmt.Errorf("%w: %s %s", ErrUntrustedSession, frame.Type, sessionID)
		}
		return h.control(ctx, sessionID, frame)
	default:
		return fmt.Errorf("hub: unexpected frame %q", frame.Type)
	}
	return nil
}

func (h *Hub) control(ctx context.Context, sessionID SessionID, frame Frame) error {
	switch frame.Type {
	case FrameURL:
		h.SetURLSuffix(frame.Value)
		slog.InfoContext(ctx, "hub: url suffix reported", "sessionID", sessionID, "suffix", frame.Value)
	case FrameArm:
		h.mu.Lock()
		c := h.controller
		h.mu.Unlock()
		if c == nil {
			slog.WarnContext(ctx, "hub: arm requested but no controller", "sessionID", sessionID)
			return nil
		}
		// Arm はポーラーの処理完了を待つので、getForm の応答を読む readLoop を塞がない
		go func() {
			if err := c.Arm(context.WithoutCancel(ctx)); err != nil {
				slog.ErrorContext(ctx, "hub: arm failed", "sessionID", sessionID, "err", err)
			}
		}()
	}
	return nil
}
