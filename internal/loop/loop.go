package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

var (
	ErrNoHandler      = errors.New("loop: handler is required")
	ErrAlreadyStarted = errors.New("loop: start called multiple times")
	ErrNotStarted     = errors.New("loop: not started")
	ErrStopped        = errors.New("loop: stopped")
	ErrQueueFull      = errors.New("loop: queue is full")
)

// Handler processes requests submitted to the loop.
type Handler interface {
	Handle(ctx context.Context, req any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req any) error

func (f HandlerFunc) Handle(ctx context.Context, req any) error { return f(ctx, req) }

// Config controls the behaviour of the single thread loop.
type Config struct {
	Handler   Handler
	QueueSize int
	Logger    *slog.Logger
}

// Loop delivers incoming requests to the provided handler on a single goroutine.
type Loop struct {
	handler Handler
	queue   chan any
	logger  *slog.Logger

	started atomic.Bool
	stopped atomic.Bool

	quit chan struct{}
	done chan struct{}
}

// New creates a Loop with the supplied configuration.
func New(cfg Config) (*Loop, error) {
	if cfg.Handler == nil {
		return nil, ErrNoHandler
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		handler: cfg.Handler,
		queue:   make(chan any, queueSize),
		logger:  logger,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start launches the single-thread loop. It must be called once.
func (l *Loop) Start(ctx context.Context) error {
	if l.stopped.Load() {
		return ErrStopped
	}
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go l.run(ctx)
	return nil
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.logger.DebugContext(ctx, "loop: context cancelled, shutting down", "err", ctx.Err())
			return
		case <-l.quit:
			l.drain(ctx)
			l.logger.DebugContext(ctx, "loop: stopped, exiting")
			return
		case req := <-l.queue:
			l.handle(ctx, req)
		}
	}
}

// drain handles requests that were accepted before Stop.
func (l *Loop) drain(ctx context.Context) {
	for {
		select {
		case req := <-l.queue:
			l.handle(ctx, req)
		default:
			return
		}
	}
}

func (l *Loop) handle(ctx context.Context, req any) {
	if err := l.handler.Handle(ctx, req); err != nil {
		l.logger.WarnContext(ctx, "loop: handler error", "err", err)
	}
}

// Submit enqueues a request, blocking while the queue is full.
func (l *Loop) Submit(ctx context.Context, req any) error {
	if err := l.accepting(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrStopped
	case <-l.done:
		return ErrStopped
	case l.queue <- req:
		return nil
	}
}

// TrySubmit enqueues a request without blocking.
func (l *Loop) TrySubmit(req any) error {
	if err := l.accepting(); err != nil {
		return err
	}
	select {
	case <-l.quit:
		return ErrStopped
	case <-l.done:
		return ErrStopped
	case l.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

func (l *Loop) accepting() error {
	if !l.started.Load() {
		return ErrNotStarted
	}
	if l.stopped.Load() {
		return ErrStopped
	}
	return nil
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Stop drains the loop and waits for graceful completion.
func (l *Loop) Stop(ctx context.Context) error {
	if !l.stopped.CompareAndSwap(false, true) {
		return errors.New("loop: stop called multiple times")
	}
	close(l.quit)
	if !l.started.Load() {
		close(l.done)
		return nil
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrainTimeout stops the loop and waits up to timeout for already queued requests to be handled.
func (l *Loop) DrainTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.Stop(ctx)
}
