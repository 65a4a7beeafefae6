package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoTableWriter はトラッカー生成時に TableWriter が渡されなかった場合のエラーです。
	ErrNoTableWriter = errors.New("tracker: table writer is required")
	// ErrPersist は撃破テーブルの書き出しに失敗した場合のエラーです。
	ErrPersist = errors.New("tracker: failed to persist table")
)

// Tracker はメモリスナップショットを見てボスの撃破を検出します。
// 単一ゴルーチンから呼び出される前提で、内部で排他制御はしません。
type Tracker struct {
	writer   TableWriter
	displays []Display

	running  bool
	hardmode bool
	table    *DefeatedTable
	pending  map[Offset]struct{}
}

func NewTracker(writer TableWriter, displays ...Display) (*Tracker, error) {
	if writer == nil {
		return nil, ErrNoTableWriter
	}
	ds := make([]Display, 0, len(displays))
	for _, d := range displays {
		if d != nil {
			ds = append(ds, d)
		}
	}
	return &Tracker{
		writer:   writer,
		displays: ds,
		table:    NewDefeatedTable(),
		pending:  make(map[Offset]struct{}, bossCount),
	}, nil
}

// Arm は追跡を(再)開始します。表示をリセットし、テーブルを全て未撃破にして書き出します。
// 書き出しに失敗してもトラッカーは有効なままです。
func (t *Tracker) Arm(ctx context.Context) error {
	t.running = true
	for _, d := range t.displays {
		if err := d.ResetDisplay(ctx); err != nil {
			slog.WarnContext(ctx, "tracker: reset display failed", "err", err)
		}
	}

	t.table.Reset()
	clear(t.pending)
	for _, b := range TrackedBosses() {
		offset, _ := b.Offset()
		t.pending[offset] = struct{}{}
	}
	t.hardmode = false

	slog.InfoContext(ctx, "tracker armed", "pending", len(t.pending))
	return t.Persist()
}

// Poll はスナップショットを1回評価します。有効でなければ何もしません。
func (t *Tracker) Poll(ctx context.Context, snap Snapshot) error {
	if !t.running || snap == nil {
		return nil
	}

	dirty := false
	for _, b := range TrackedBosses() {
		offset, _ := b.Offset()
		if _, ok := t.pending[offset]; !ok {
			continue
		}
		if !snap.IsBossBeaten(offset) {
			continue
		}
		delete(t.pending, offset)
		if t.defeat(ctx, b) {
			dirty = true
		}
	}

	if !t.hardmode && snap.HardmodeEntered() {
		t.hardmode = true
		if t.defeat(ctx, WallOfFlesh) {
			dirty = true
		}
	}

	if dirty {
		return t.Persist()
	}
	return nil
}

// Persist はテーブル全体をカタログ順で書き出します。
func (t *Tracker) Persist() error {
	if err := t.writer.WriteTable(t.table.Entries()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (t *Tracker) Running() bool  { return t.running }
func (t *Tracker) Hardmode() bool { return t.hardmode }

// Table は撃破テーブルのコピーを返します。
func (t *Tracker) Table() []Entry { return t.table.Entries() }

// Pending はまだ撃破が確認されていないボスをカタログ順で返します。
func (t *Tracker) Pending() []Boss {
	out := make([]Boss, 0, len(t.pending))
	for _, b := range TrackedBosses() {
		offset, _ := b.Offset()
		if _, ok := t.pending[offset]; ok {
			out = append(out, b)
		}
	}
	return out
}

// defeat は表示に撃破を通知し、フラグが新たに立った場合に true を返します。
func (t *Tracker) defeat(ctx context.Context, b Boss) bool {
	t.showDefeated(ctx, b)
	if !t.table.MarkDefeated(b) {
		return false
	}
	slog.InfoContext(ctx, "boss defeated", "boss", b.ID())
	return true
}

func (t *Tracker) showDefeated(ctx context.Context, b Boss) {
	sel, ok := b.Selector()
	if !ok {
		return
	}
	for _, d := range t.displays {
		name := sel.Name
		if sel.Form {
			// フォームの解決は必ず mark より先に行う
			resolved, err := d.ResolveForm(ctx, sel.Name)
			if err != nil {
				slog.WarnContext(ctx, "tracker: resolve form failed", "boss", b.ID(), "group", sel.Name, "err", err)
				continue
			}
			name = resolved
		}
		if err := d.MarkDefeated(ctx, name); err != nil {
			slog.WarnContext(ctx, "tracker: mark defeated failed", "boss", b.ID(), "name", name, "err", err)
		}
	}
}
