package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"checklist/domain"

	"gopkg.in/yaml.v3"
)

// document はスナップショットファイルの形式です。
//
//	hardmode: true
//	beaten: [EyeofCthulhu, KingSlime]
type document struct {
	Hardmode bool     `yaml:"hardmode"`
	Beaten   []string `yaml:"beaten"`
}

// Snapshot はファイルから読んだ不変のスナップショットです。
type Snapshot struct {
	beaten   map[domain.Offset]bool
	hardmode bool
}

var _ domain.Snapshot = Snapshot{}

func (s Snapshot) IsBossBeaten(offset domain.Offset) bool { return s.beaten[offset] }
func (s Snapshot) HardmodeEntered() bool                  { return s.hardmode }

// Parse はYAMLを読みます。未知の識別子とオフセットを持たないボスは無視します。
func Parse(data []byte) (Snapshot, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	snap := Snapshot{beaten: make(map[domain.Offset]bool, len(doc.Beaten)), hardmode: doc.Hardmode}
	for _, id := range doc.Beaten {
		boss, ok := domain.ParseBoss(id)
		if !ok {
			slog.Warn("snapshot: unknown boss ignored", "id", id)
			continue
		}
		offset, ok := boss.Offset()
		if !ok {
			slog.Warn("snapshot: boss has no memory flag, use hardmode instead", "id", id)
			continue
		}
		snap.beaten[offset] = true
	}
	return snap, nil
}

// Source はスナップショットファイルを保持し、変更されたら読み直します。
type Source struct {
	path    string
	current atomic.Pointer[Snapshot]
	watcher *Watcher
}

// Open はファイルを読み込んで監視を開始します。ファイルが無い場合は空のスナップショットになります。
func Open(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	w, err := NewWatcher(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: watch %s: %w", path, err)
	}
	s.watcher = w
	return s, nil
}

func (s *Source) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return *s.current.Load(), nil
}

// Reload はファイルを読み直します。パースに失敗した場合は前の内容を保持します。
func (s *Source) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.current.Store(&Snapshot{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return err
	}
	s.current.Store(&snap)
	return nil
}

// Run は監視イベントを処理します。ctxが終了するとウォッチャーを閉じて戻ります。
func (s *Source) Run(ctx context.Context) error {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if err := s.Reload(); err != nil {
				slog.WarnContext(ctx, "snapshot: reload failed", "path", name, "err", err)
				continue
			}
			slog.DebugContext(ctx, "snapshot reloaded", "path", name)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "snapshot: watcher error", "err", err)
		}
	}
}

func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
