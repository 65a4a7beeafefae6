package file

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"checklist/domain"
)

// DefaultPath はホストの作業ディレクトリに置かれる撃破テーブルのファイル名です。
const DefaultPath = "_bosses-defeated.csv"

var (
	ErrMalformedLine = errors.New("file: malformed table line")
	ErrUnknownBoss   = errors.New("file: unknown boss identifier")
)

// Store は撃破テーブルを `<identifier>,<True|False>` の行として書き出します。
// 書き込みのたびにファイル全体を上書きします。
type Store struct {
	path string
}

var _ domain.TableWriter = (*Store)(nil)

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) WriteTable(entries []domain.Entry) error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s,%s\n", e.Boss.ID(), formatBool(e.Defeated)); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load はファイルを読み戻します。存在しないファイルは空のテーブルとして扱います。
func Load(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewDefeatedTable().Entries(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := domain.NewDefeatedTable()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, value, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
		}
		boss, ok := domain.ParseBoss(id)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownBoss, lineNo, id)
		}
		defeated, err := parseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
		}
		if defeated {
			table.MarkDefeated(boss)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table.Entries(), nil
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
