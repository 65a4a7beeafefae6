package terminal

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimDisplay(t *testing.T) (*Display, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)
	return New(screen), screen
}

func rowText(s tcell.Screen, y, width int) string {
	out := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func rowOf(t *testing.T, d *Display, label string) int {
	t.Helper()
	for i, r := range d.rows {
		if r.label == label {
			return i + 2
		}
	}
	t.Fatalf("no row %q", label)
	return -1
}

func TestDisplay_RowsSkipUnmappedBoss(t *testing.T) {
	d, _ := newSimDisplay(t)
	if len(d.rows) != 16 {
		t.Fatalf("rows = %d, want 16 (every boss with a selector)", len(d.rows))
	}
	for _, r := range d.rows {
		if r.label == "Deerclops" {
			t.Fatal("Deerclops has no checklist entry")
		}
	}
}

func TestDisplay_MarkAndReset(t *testing.T) {
	d, screen := newSimDisplay(t)
	ctx := context.Background()

	if err := d.MarkDefeated(ctx, "queen_bee"); err != nil {
		t.Fatal(err)
	}
	if err := d.MarkDefeated(ctx, "spazmatism"); err != nil {
		t.Fatal(err)
	}
	if got := d.Checked(); !slices.Equal(got, []string{"queen_bee", "spazmatism"}) {
		t.Fatalf("Checked() = %v", got)
	}
	if got := rowText(screen, rowOf(t, d, "Queen Bee"), 3); got != "[x]" {
		t.Errorf("queen bee row = %q", got)
	}
	if got := rowText(screen, rowOf(t, d, "The Twins"), 3); got != "[x]" {
		t.Errorf("twins row = %q", got)
	}

	if err := d.ResetDisplay(ctx); err != nil {
		t.Fatal(err)
	}
	if len(d.Checked()) != 0 {
		t.Fatalf("reset left %v checked", d.Checked())
	}
	if got := rowText(screen, rowOf(t, d, "Queen Bee"), 3); got != "[ ]" {
		t.Errorf("queen bee row after reset = %q", got)
	}
}

func TestDisplay_ResolveForm(t *testing.T) {
	d, _ := newSimDisplay(t)
	ctx := context.Background()

	got, err := d.ResolveForm(ctx, "cthulhuForm")
	if err != nil || got != "eye_of_cthulhu" {
		t.Fatalf("default form = %q, %v", got, err)
	}

	// 最初のフォーム行は cthulhuForm
	d.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if got, _ := d.ResolveForm(ctx, "cthulhuForm"); got != "eye_of_cthulhu_phase2" {
		t.Errorf("after right = %q", got)
	}
	d.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if got, _ := d.ResolveForm(ctx, "cthulhuForm"); got != "eye_of_cthulhu" {
		t.Errorf("cycling wraps, got %q", got)
	}

	// 次のグループへ移動して左で切り替え
	d.handleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	d.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if got, _ := d.ResolveForm(ctx, "eaterBrainForm"); got != "brain_of_cthulhu" {
		t.Errorf("eaterBrainForm = %q", got)
	}

	if _, err := d.ResolveForm(ctx, "nope"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestDisplay_KeyActions(t *testing.T) {
	d, _ := newSimDisplay(t)
	cases := []struct {
		ev   *tcell.EventKey
		want action
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), actionArm},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), actionQuit},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), actionQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), actionQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), actionNone},
	}
	for _, tc := range cases {
		if got := d.handleEvent(tc.ev); got != tc.want {
			t.Errorf("key %v: action = %d, want %d", tc.ev.Name(), got, tc.want)
		}
	}
}

func TestDisplay_RunArmsAndQuits(t *testing.T) {
	d, screen := newSimDisplay(t)

	armed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- d.Run(context.Background(), func() { armed <- struct{}{} })
	}()

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	select {
	case <-armed:
	case <-time.After(2 * time.Second):
		t.Fatal("r did not arm")
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("q did not quit")
	}
}
