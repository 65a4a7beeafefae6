package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"checklist/domain"
)

type beatenSnapshot struct {
	offset domain.Offset
}

func (s beatenSnapshot) IsBossBeaten(offset domain.Offset) bool { return offset == s.offset }
func (s beatenSnapshot) HardmodeEntered() bool                  { return false }

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestStoreWriteTable_OneLinePerCatalogEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	store := NewStore(path)

	table := domain.NewDefeatedTable()
	table.MarkDefeated(domain.QueenBee)
	if err := store.WriteTable(table.Entries()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != domain.BossCount {
		t.Fatalf("got %d lines, want %d", len(lines), domain.BossCount)
	}
	if lines[0] != "WallofFlesh,False" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[domain.QueenBee] != "QueenBee,True" {
		t.Errorf("QueenBee line = %q", lines[domain.QueenBee])
	}
	if lines[len(lines)-1] != "Deerclops,False" {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestStoreWriteTable_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(strings.Repeat("junk\n", 40)), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := NewStore(path)
	if err := store.WriteTable(domain.NewDefeatedTable().Entries()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}
	if got := len(readLines(t, path)); got != domain.BossCount {
		t.Fatalf("got %d lines after overwrite, want %d", got, domain.BossCount)
	}
}

func TestStore_TrackerScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	store := NewStore(path)
	tr, err := domain.NewTracker(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	if err := tr.Arm(ctx); err != nil {
		t.Fatalf("arm failed: %v", err)
	}

	offset, _ := domain.DukeFishron.Offset()
	if err := tr.Poll(ctx, beatenSnapshot{offset: offset}); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if !strings.Contains(strings.Join(readLines(t, path), "\n"), "DukeFishron,True") {
		t.Fatalf("file does not record DukeFishron as defeated")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// 2回目は書き込まれないので、消したファイルは復活しない
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := tr.Poll(ctx, beatenSnapshot{offset: offset}); err != nil {
		t.Fatalf("second poll failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("second poll rewrote the table (previous size %d)", info.Size())
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	table := domain.NewDefeatedTable()
	table.MarkDefeated(domain.WallOfFlesh)
	table.MarkDefeated(domain.Plantera)
	if err := NewStore(path).WriteTable(table.Entries()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	for _, e := range entries {
		want := e.Boss == domain.WallOfFlesh || e.Boss == domain.Plantera
		if e.Defeated != want {
			t.Errorf("%s defeated = %v, want %v", e.Boss, e.Defeated, want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	entries, err := Load(filepath.Join(dir, "missing.csv"))
	if err != nil || len(entries) != domain.BossCount {
		t.Fatalf("missing file: entries=%d err=%v", len(entries), err)
	}

	cases := map[string]error{
		"unknown.csv":  ErrUnknownBoss,
		"noComma.csv":  ErrMalformedLine,
		"badValue.csv": ErrMalformedLine,
	}
	contents := map[string]string{
		"unknown.csv":  "Retinazer,True\n",
		"noComma.csv":  "Golem True\n",
		"badValue.csv": "Golem,maybe\n",
	}
	for name, want := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents[name]), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		if _, err := Load(path); !errors.Is(err, want) {
			t.Errorf("%s: expected %v, got %v", name, want, err)
		}
	}
}
