package domain_test

import (
	"context"
	"errors"
	"testing"

	"checklist/domain"
	"checklist/domain/mocks"

	"go.uber.org/mock/gomock"
)

// --- test doubles ---

type recordingWriter struct {
	writes [][]domain.Entry
	err    error
}

func (w *recordingWriter) WriteTable(entries []domain.Entry) error {
	w.writes = append(w.writes, append([]domain.Entry(nil), entries...))
	return w.err
}

func (w *recordingWriter) last(t testing.TB) []domain.Entry {
	t.Helper()
	if len(w.writes) == 0 {
		t.Fatalf("no table written")
	}
	return w.writes[len(w.writes)-1]
}

type fakeSnapshot struct {
	beaten   map[domain.Offset]bool
	hardmode bool
}

func (s fakeSnapshot) IsBossBeaten(offset domain.Offset) bool { return s.beaten[offset] }
func (s fakeSnapshot) HardmodeEntered() bool                  { return s.hardmode }

func snapshotOf(hardmode bool, bosses ...domain.Boss) fakeSnapshot {
	s := fakeSnapshot{beaten: make(map[domain.Offset]bool), hardmode: hardmode}
	for _, b := range bosses {
		if offset, ok := b.Offset(); ok {
			s.beaten[offset] = true
		}
	}
	return s
}

func defeatedOf(entries []domain.Entry, b domain.Boss) bool {
	for _, e := range entries {
		if e.Boss == b {
			return e.Defeated
		}
	}
	return false
}

func newArmedTracker(t *testing.T, w domain.TableWriter, displays ...domain.Display) *domain.Tracker {
	t.Helper()
	tr, err := domain.NewTracker(w, displays...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Arm(context.Background()); err != nil {
		t.Fatalf("arm failed: %v", err)
	}
	return tr
}

// --- tests ---

func TestNewTracker_RequiresWriter(t *testing.T) {
	_, err := domain.NewTracker(nil)
	if !errors.Is(err, domain.ErrNoTableWriter) {
		t.Fatalf("expected ErrNoTableWriter, got %v", err)
	}
}

func TestTracker_ArmResetsTableAndPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil).Times(1)

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, display)

	if !tr.Running() {
		t.Fatalf("tracker should be running after arm")
	}
	if tr.Hardmode() {
		t.Fatalf("hardmode should be cleared after arm")
	}
	entries := w.last(t)
	if len(entries) != domain.BossCount {
		t.Fatalf("persisted %d entries, want %d", len(entries), domain.BossCount)
	}
	for i, e := range entries {
		if e.Boss != domain.Boss(i) {
			t.Errorf("entry %d is %s, want catalog order", i, e.Boss)
		}
		if e.Defeated {
			t.Errorf("%s should not be defeated after arm", e.Boss)
		}
	}
	pending := tr.Pending()
	tracked := domain.TrackedBosses()
	if len(pending) != len(tracked) {
		t.Fatalf("pending = %d bosses, want %d", len(pending), len(tracked))
	}
	for i := range tracked {
		if pending[i] != tracked[i] {
			t.Errorf("pending[%d] = %s, want %s", i, pending[i], tracked[i])
		}
	}
}

func TestTracker_PollBeforeArmIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	snap := mocks.NewMockSnapshot(ctrl)
	w := &recordingWriter{}

	tr, err := domain.NewTracker(w, display)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Poll(context.Background(), snap); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if len(w.writes) != 0 {
		t.Fatalf("idle tracker wrote the table %d times", len(w.writes))
	}
}

func TestTracker_PollMarksBeatenBossOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil)
	display.EXPECT().MarkDefeated(gomock.Any(), "skeletron").Return(nil).Times(1)

	skeletronOffset, _ := domain.Skeletron.Offset()
	snap := mocks.NewMockSnapshot(ctrl)
	snap.EXPECT().IsBossBeaten(gomock.Any()).DoAndReturn(func(offset domain.Offset) bool {
		return offset == skeletronOffset
	}).AnyTimes()
	snap.EXPECT().HardmodeEntered().Return(false).AnyTimes()

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, display)
	ctx := context.Background()

	if err := tr.Poll(ctx, snap); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if len(w.writes) != 2 {
		t.Fatalf("expected arm + dirty poll writes, got %d", len(w.writes))
	}
	if !defeatedOf(w.last(t), domain.Skeletron) {
		t.Fatalf("Skeletron should be persisted as defeated")
	}

	// 同じスナップショットでは書き込みも表示更新も起きない
	if err := tr.Poll(ctx, snap); err != nil {
		t.Fatalf("second poll returned error: %v", err)
	}
	if len(w.writes) != 2 {
		t.Fatalf("idempotent poll wrote the table again (%d writes)", len(w.writes))
	}
	if !defeatedOf(tr.Table(), domain.Skeletron) {
		t.Fatalf("Skeletron flag reverted")
	}
	for _, b := range tr.Pending() {
		if b == domain.Skeletron {
			t.Fatalf("Skeletron still pending")
		}
	}
}

func TestTracker_ResolvesFormBeforeMarking(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil)
	gomock.InOrder(
		display.EXPECT().ResolveForm(gomock.Any(), "cthulhuForm").Return("eye_of_cthulhu_phase2", nil),
		display.EXPECT().MarkDefeated(gomock.Any(), "eye_of_cthulhu_phase2").Return(nil),
	)

	tr := newArmedTracker(t, &recordingWriter{}, display)
	if err := tr.Poll(context.Background(), snapshotOf(false, domain.EyeOfCthulhu)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
}

func TestTracker_ResolveFailureSkipsMarkButKeepsFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil)
	display.EXPECT().ResolveForm(gomock.Any(), "twinsForm").Return("", errors.New("no page"))
	display.EXPECT().MarkDefeated(gomock.Any(), gomock.Any()).Times(0)

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, display)
	if err := tr.Poll(context.Background(), snapshotOf(false, domain.TheTwins)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if !defeatedOf(w.last(t), domain.TheTwins) {
		t.Fatalf("TheTwins should be persisted even if the display could not be updated")
	}
}

func TestTracker_DisplayErrorsDoNotAbortPoll(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mocks.NewMockDisplay(ctrl)
	broken.EXPECT().ResetDisplay(gomock.Any()).Return(errors.New("gone"))
	broken.EXPECT().MarkDefeated(gomock.Any(), "golem").Return(errors.New("gone"))
	healthy := mocks.NewMockDisplay(ctrl)
	healthy.EXPECT().ResetDisplay(gomock.Any()).Return(nil)
	healthy.EXPECT().MarkDefeated(gomock.Any(), "golem").Return(nil)

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, broken, healthy)
	if err := tr.Poll(context.Background(), snapshotOf(false, domain.Golem)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if !defeatedOf(w.last(t), domain.Golem) {
		t.Fatalf("Golem should be defeated")
	}
}

func TestTracker_UnmappedBossIsNotForwarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil)

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, display)
	if err := tr.Poll(context.Background(), snapshotOf(false, domain.Deerclops)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if !defeatedOf(w.last(t), domain.Deerclops) {
		t.Fatalf("Deerclops should be persisted as defeated")
	}
}

func TestTracker_HardmodeMarksWallOfFleshOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	display := mocks.NewMockDisplay(ctrl)
	display.EXPECT().ResetDisplay(gomock.Any()).Return(nil)
	display.EXPECT().MarkDefeated(gomock.Any(), "wall_of_flesh").Return(nil).Times(1)

	w := &recordingWriter{}
	tr := newArmedTracker(t, w, display)
	ctx := context.Background()
	snap := snapshotOf(true)

	for i := 0; i < 3; i++ {
		if err := tr.Poll(ctx, snap); err != nil {
			t.Fatalf("poll %d returned error: %v", i, err)
		}
	}
	if !tr.Hardmode() {
		t.Fatalf("hardmode flag should be set")
	}
	if len(w.writes) != 2 {
		t.Fatalf("expected exactly one dirty write after arm, got %d writes", len(w.writes))
	}
	if !defeatedOf(w.last(t), domain.WallOfFlesh) {
		t.Fatalf("WallofFlesh should be defeated")
	}
}

func TestTracker_PersistErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mocks.NewMockTableWriter(ctrl)
	diskFull := errors.New("disk full")
	gomock.InOrder(
		writer.EXPECT().WriteTable(gomock.Len(domain.BossCount)).Return(nil),
		writer.EXPECT().WriteTable(gomock.Len(domain.BossCount)).Return(diskFull),
	)

	tr := newArmedTracker(t, writer)
	err := tr.Poll(context.Background(), snapshotOf(false, domain.MoonLord))
	if !errors.Is(err, domain.ErrPersist) || !errors.Is(err, diskFull) {
		t.Fatalf("expected wrapped persist error, got %v", err)
	}
	if !defeatedOf(tr.Table(), domain.MoonLord) {
		t.Fatalf("MoonLord flag should be set even though persisting failed")
	}
}

func TestTracker_RearmClearsProgress(t *testing.T) {
	w := &recordingWriter{}
	tr := newArmedTracker(t, w)
	ctx := context.Background()

	if err := tr.Poll(ctx, snapshotOf(true, domain.KingSlime, domain.QueenBee)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if err := tr.Arm(ctx); err != nil {
		t.Fatalf("re-arm failed: %v", err)
	}
	for _, e := range w.last(t) {
		if e.Defeated {
			t.Errorf("%s still defeated after re-arm", e.Boss)
		}
	}
	if tr.Hardmode() {
		t.Fatalf("hardmode not cleared by re-arm")
	}
	if len(tr.Pending()) != len(domain.TrackedBosses()) {
		t.Fatalf("pending set not refilled by re-arm")
	}

	// 再アーム後は同じボスが再び検出される
	if err := tr.Poll(ctx, snapshotOf(false, domain.KingSlime)); err != nil {
		t.Fatalf("poll returned error: %v", err)
	}
	if !defeatedOf(w.last(t), domain.KingSlime) {
		t.Fatalf("KingSlime should be detected again after re-arm")
	}
}
