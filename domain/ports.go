package domain

import "context"

//go:generate go tool mockgen -destination=./mocks/ports_mock.go -package=mocks . Snapshot,Display,TableWriter

// Snapshot はある時点のゲームメモリの読み取り結果です。
type Snapshot interface {
	// IsBossBeaten は offset のボスが撃破済みかを返します。
	IsBossBeaten(offset Offset) bool
	// HardmodeEntered はワールドがハードモードに入っているかを返します。
	HardmodeEntered() bool
}

// Display はチェックリストを表示する外部の画面です。
type Display interface {
	ResetDisplay(ctx context.Context) error
	MarkDefeated(ctx context.Context, name string) error
	// ResolveForm はフォームグループで現在選択されている名前を返します。
	ResolveForm(ctx context.Context, group string) (string, error)
}

// TableWriter は撃破テーブル全体を永続化します。
type TableWriter interface {
	WriteTable(entries []Entry) error
}
