package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"checklist/domain"
	"checklist/internal/loop"
)

var ErrMissingDependency = errors.New("poller: missing dependency")

// SnapshotSource はゲームメモリのスナップショットを取得します。
// ゲームに接続していない間はエラーを返し、そのtickは読み飛ばされます。
type SnapshotSource interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// Status はトラッカーの状態のコピーです。HTTPハンドラなど他のゴルーチンから読まれます。
type Status struct {
	Running   bool
	Hardmode  bool
	Entries   []domain.Entry
	UpdatedAt time.Time
}

type Config struct {
	Interval   time.Duration
	QueueSize  int
	ArmOnStart bool
	Clock      func() time.Time
}

// Poller はトラッカーを単一ゴルーチンのループ上で動かします。
// トラッカーへの呼び出しは全てループ経由で行われます。
type Poller struct {
	tracker  *domain.Tracker
	source   SnapshotSource
	interval time.Duration
	armStart bool
	clock    func() time.Time

	loop   *loop.Loop
	status atomic.Pointer[Status]
	fatal  chan error
}

type pollRequest struct{}

type armRequest struct {
	done chan error
}

func New(tracker *domain.Tracker, source SnapshotSource, cfg Config) (*Poller, error) {
	if tracker == nil || source == nil {
		return nil, fmt.Errorf("%w: tracker=%v source=%v", ErrMissingDependency, tracker != nil, source != nil)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	p := &Poller{
		tracker:  tracker,
		source:   source,
		interval: interval,
		armStart: cfg.ArmOnStart,
		clock:    clock,
		fatal:    make(chan error, 1),
	}
	l, err := loop.New(loop.Config{Handler: p, QueueSize: cfg.QueueSize})
	if err != nil {
		return nil, err
	}
	p.loop = l
	p.publish()
	return p, nil
}

// Run はループとtickerを起動し、ctxの終了か書き出しエラーまでブロックします。
func (p *Poller) Run(ctx context.Context) error {
	if err := p.loop.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := p.loop.DrainTimeout(time.Second); err != nil {
			slog.WarnContext(ctx, "poller: drain failed", "err", err)
		}
	}()

	if p.armStart {
		if err := p.loop.Submit(ctx, armRequest{}); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-p.fatal:
			return err
		case <-ticker.C:
			err := p.loop.TrySubmit(pollRequest{})
			if errors.Is(err, loop.ErrQueueFull) {
				slog.DebugContext(ctx, "poller: queue full, tick skipped")
				continue
			}
			if err != nil {
				return err
			}
		}
	}
}

// Arm は追跡の開始をループに依頼し、処理されるまで待ちます。
func (p *Poller) Arm(ctx context.Context) error {
	req := armRequest{done: make(chan error, 1)}
	if err := p.loop.Submit(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-req.done:
		return err
	case <-p.loop.Done():
		// 終了済みのループに積まれた要求は処理されない
		select {
		case err := <-req.done:
			return err
		default:
			return loop.ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status は最後に公開された状態を返します。
func (p *Poller) Status() Status {
	return *p.status.Load()
}

// Handle はループ上で呼ばれます。
func (p *Poller) Handle(ctx context.Context, req any) error {
	var (
		err  error
		done chan error
	)
	switch r := req.(type) {
	case pollRequest:
		err = p.poll(ctx)
	case armRequest:
		err = p.tracker.Arm(ctx)
		done = r.done
	default:
		return fmt.Errorf("poller: unknown request %T", req)
	}
	p.publish()
	if err != nil {
		p.fail(err)
	}
	if done != nil {
		done <- err
	}
	return err
}

func (p *Poller) poll(ctx context.Context) error {
	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		slog.DebugContext(ctx, "poller: snapshot unavailable", "err", err)
		return nil
	}
	return p.tracker.Poll(ctx, snap)
}

func (p *Poller) publish() {
	p.status.Store(&Status{
		Running:   p.tracker.Running(),
		Hardmode:  p.tracker.Hardmode(),
		Entries:   p.tracker.Table(),
		UpdatedAt: p.clock(),
	})
}

// fail はテーブルの書き出し失敗をRunに伝えます。最初のエラーだけが残ります。
func (p *Poller) fail(err error) {
	select {
	case p.fatal <- err:
	default:
	}
}
