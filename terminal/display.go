// Package terminal はボスチェックリストを端末に描画する表示先です。
package terminal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"checklist/domain"

	"github.com/gdamore/tcell/v2"
)

var ErrUnknownGroup = errors.New("terminal: unknown form group")

var (
	styleDefault  = tcell.StyleDefault
	styleChecked  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// row はチェックリストの1行です。フォーム行は group の選択肢を持ちます。
type row struct {
	label    string
	selector domain.Selector
	variants []string
}

// Display は端末上のチェックリストです。チェック状態と各フォームの選択を保持します。
type Display struct {
	screen tcell.Screen

	mu      sync.Mutex
	rows    []row
	checked map[string]bool
	forms   map[string]int // group -> variants の添字
	focus   int            // フォーム行の中で選択中のもの
}

var _ domain.Display = (*Display)(nil)

func New(screen tcell.Screen) *Display {
	d := &Display{
		screen:  screen,
		checked: make(map[string]bool),
		forms:   make(map[string]int),
	}
	for _, b := range domain.Catalog() {
		sel, ok := b.Selector()
		if !ok {
			continue
		}
		r := row{label: b.DisplayName(), selector: sel}
		if sel.Form {
			r.variants = domain.FormVariants(sel.Name)
			d.forms[sel.Name] = 0
		}
		d.rows = append(d.rows, r)
	}
	return d
}

func (d *Display) ResetDisplay(ctx context.Context) error {
	d.mu.Lock()
	clear(d.checked)
	d.mu.Unlock()
	d.draw()
	return nil
}

func (d *Display) MarkDefeated(ctx context.Context, name string) error {
	d.mu.Lock()
	d.checked[name] = true
	d.mu.Unlock()
	d.draw()
	return nil
}

// ResolveForm は画面で選択中のフォーム名を返します。
func (d *Display) ResolveForm(ctx context.Context, group string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx, ok := d.forms[group]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGroup, group)
	}
	return domain.FormVariants(group)[idx], nil
}

// Checked はチェック済みの名前をソートして返します。
func (d *Display) Checked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.checked))
	for name := range d.checked {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Run はキー入力を処理し、q/Esc/Ctrl-C か ctx の終了で戻ります。
// r キーで onArm が呼ばれます。画面の Init/Fini は呼び出し側の責務です。
func (d *Display) Run(ctx context.Context, onArm func()) error {
	d.draw()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			// Fini 後は nil
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch d.handleEvent(ev) {
			case actionQuit:
				return nil
			case actionArm:
				if onArm != nil {
					onArm()
				}
			}
		}
	}
}

type action uint8

const (
	actionNone action = iota
	actionQuit
	actionArm
)

func (d *Display) handleEvent(ev tcell.Event) action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return actionQuit
		case tcell.KeyTab, tcell.KeyDown:
			d.moveFocus(1)
		case tcell.KeyBacktab, tcell.KeyUp:
			d.moveFocus(-1)
		case tcell.KeyRight:
			d.cycleForm(1)
		case tcell.KeyLeft:
			d.cycleForm(-1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return actionQuit
			case 'r':
				return actionArm
			}
		}
		d.draw()
	case *tcell.EventResize:
		d.screen.Sync()
		d.draw()
	}
	return actionNone
}

func (d *Display) formRows() []int {
	var idx []int
	for i, r := range d.rows {
		if r.selector.Form {
			idx = append(idx, i)
		}
	}
	return idx
}

func (d *Display) moveFocus(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.formRows())
	if n == 0 {
		return
	}
	d.focus = ((d.focus+delta)%n + n) % n
}

func (d *Display) cycleForm(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	forms := d.formRows()
	if len(forms) == 0 {
		return
	}
	r := d.rows[forms[d.focus]]
	n := len(r.variants)
	d.forms[r.selector.Name] = ((d.forms[r.selector.Name]+delta)%n + n) % n
}

func (d *Display) draw() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.screen.Clear()
	drawText(d.screen, 0, 0, styleTitle, "Terraria Boss Checklist")

	focused := -1
	if forms := d.formRows(); len(forms) > 0 {
		focused = forms[d.focus]
	}
	for i, r := range d.rows {
		y := i + 2
		mark, style := "[ ]", styleDefault
		if d.rowChecked(r) {
			mark, style = "[x]", styleChecked
		}
		x := drawText(d.screen, 0, y, style, fmt.Sprintf("%s %-36s", mark, r.label))
		if !r.selector.Form {
			continue
		}
		chosen := d.forms[r.selector.Name]
		for j, v := range r.variants {
			vs := styleDefault
			if j == chosen {
				vs = styleChecked
				if i == focused {
					vs = styleSelected
				}
			}
			x = drawText(d.screen, x+1, y, vs, v)
		}
	}
	drawText(d.screen, 0, len(d.rows)+3, styleHelp, "tab/↑↓ select  ←→ form  r arm  q quit")
	d.screen.Show()
}

func (d *Display) rowChecked(r row) bool {
	if !r.selector.Form {
		return d.checked[r.selector.Name]
	}
	return slices.ContainsFunc(r.variants, func(v string) bool { return d.checked[v] })
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
