package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checklist/chime"
	"checklist/config"
	core "checklist/domain"
	"checklist/internal/poller"
	"checklist/pkg/logger"
	"checklist/pkg/telemetry"
	"checklist/repository/table/file"
	"checklist/server"
	"checklist/server/domain"
	snapshotfile "checklist/snapshot/file"
	"checklist/terminal"
	"checklist/utils"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("checklist stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("CHECKLIST_CONFIG"))
	if err != nil {
		return err
	}

	// 端末表示を使う間は標準エラーに書くと画面が崩れる
	logPath := utils.GetEnvDefault("LOG_FILE", "")
	if logPath == "" && cfg.HasDisplay(config.DisplayTerminal) {
		logPath = "checklist.log"
	}
	var logOut io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	level, err := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return err
	}

	tel, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "checklist")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "err", err)
		}
	}()
	slog.SetDefault(logger.New(logger.NewHandler(logOut, level, os.Getenv("LOG_FORMAT")), tel.LogHandler))

	store := file.NewStore(cfg.TablePath)
	if previous, err := file.Load(cfg.TablePath); err != nil {
		slog.WarnContext(ctx, "previous table unreadable", "path", cfg.TablePath, "err", err)
	} else {
		slog.InfoContext(ctx, "previous table", "path", cfg.TablePath, "defeated", core.CountDefeated(previous))
	}

	source, err := snapshotfile.Open(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	pubsub := domain.NewSimplePubSub()
	hub := domain.NewHub(pubsub, cfg.FormTimeout, cfg.URLSuffix)

	var displays []core.Display
	if cfg.HasDisplay(config.DisplayWeb) {
		displays = append(displays, hub)
	}
	var term *terminal.Display
	if cfg.HasDisplay(config.DisplayTerminal) {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer screen.Fini()
		term = terminal.New(screen)
		displays = append(displays, term)
	}
	if cfg.HasDisplay(config.DisplayChime) {
		if err := speaker.Init(chime.SampleRate, chime.SampleRate.N(100*time.Millisecond)); err != nil {
			return fmt.Errorf("chime: %w", err)
		}
		displays = append(displays, chime.New(chime.SampleRate, speaker.Play))
	}

	tracker, err := core.NewTracker(store, displays...)
	if err != nil {
		return err
	}
	p, err := poller.New(tracker, source, poller.Config{
		Interval:   cfg.PollInterval,
		ArmOnStart: cfg.ArmOnStart,
	})
	if err != nil {
		return err
	}
	hub.SetController(p)

	s := server.NewServer(cfg.ListenAddr(), server.Route(server.RouteConfig{
		SiteURL:    cfg.SiteURL,
		AuthSecret: []byte(cfg.AuthSecret),
		Status:     p,
		Controller: p,
		PubSub:     pubsub,
		Hub:        hub,
	}))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return source.Run(ctx) })
	eg.Go(func() error { return p.Run(ctx) })
	eg.Go(func() error {
		slog.InfoContext(ctx, "server listening", "addr", s.Addr(), "displays", cfg.Displays)
		if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		slog.InfoContext(ctx, "shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "graceful shutdown failed", "err", err)
			return s.Close()
		}
		return nil
	})
	if term != nil {
		eg.Go(func() error {
			// 端末で q を押したらプロセス全体を止める
			defer stop()
			return term.Run(ctx, func() {
				go func() {
					if err := p.Arm(ctx); err != nil {
						slog.ErrorContext(ctx, "arm failed", "err", err)
					}
				}()
			})
		})
	}

	err = eg.Wait()
	slog.Info("checklist shutdown complete", "defeated", core.CountDefeated(p.Status().Entries))
	return err
}
