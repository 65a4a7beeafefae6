package domain

import (
	"fmt"
	"strings"
)

// IdleReason はセッションがアイドルと判定された理由のビット集合です。
type IdleReason uint8

const (
	IdleNone     IdleReason = 0
	IdleRead     IdleReason = 1 << 0
	IdleWrite    IdleReason = 1 << 1
	IdlePong     IdleReason = 1 << 2
	IdleDisabled IdleReason = 1 << 7 // timeout<=0 のとき
)

func (r IdleReason) Has(x IdleReason) bool { return r&x != 0 }

func (r IdleReason) String() string {
	switch r {
	case IdleNone:
		return "none"
	case IdleDisabled:
		return "disabled"
	}
	var parts []string
	for _, p := range []struct {
		bit  IdleReason
		name string
	}{{IdleRead, "read"}, {IdleWrite, "write"}, {IdlePong, "pong"}} {
		if r.Has(p.bit) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("unknown(%d)", r)
	}
	return strings.Join(parts, "|")
}
