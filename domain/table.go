package domain

// Entry は撃破テーブルの1行です。
type Entry struct {
	Boss     Boss
	Defeated bool
}

// DefeatedTable はカタログの全ボスについて撃破済みかどうかを保持します。
// エントリが削除されることはありません。
type DefeatedTable struct {
	flags [bossCount]bool
}

func NewDefeatedTable() *DefeatedTable {
	return &DefeatedTable{}
}

// Reset は全フラグを false に戻します。
func (t *DefeatedTable) Reset() {
	t.flags = [bossCount]bool{}
}

// MarkDefeated は b を撃破済みにします。false から true に変わった場合だけ true を返します。
func (t *DefeatedTable) MarkDefeated(b Boss) bool {
	if !b.Valid() || t.flags[b] {
		return false
	}
	t.flags[b] = true
	return true
}

func (t *DefeatedTable) Defeated(b Boss) bool {
	return b.Valid() && t.flags[b]
}

// Entries はカタログ順の全エントリを返します。
func (t *DefeatedTable) Entries() []Entry {
	out := make([]Entry, 0, bossCount)
	for b := Boss(0); b < bossCount; b++ {
		out = append(out, Entry{Boss: b, Defeated: t.flags[b]})
	}
	return out
}

// CountDefeated は entries のうち撃破済みの数を返します。
func CountDefeated(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Defeated {
			n++
		}
	}
	return n
}
