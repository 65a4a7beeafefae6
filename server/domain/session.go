package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionID は接続ごとに振られる uuid です。ページには assign フレームで通知されます。
type SessionID string

func (id SessionID) String() string { return string(id) }

// Session はチェックリストページ1枚との論理的な接続状態を表す構造体です。
// 時刻は UnixNano で保持し、read/write/owner の各ループから排他なしで更新されます。
type Session struct {
	id SessionID

	lastRead  atomic.Int64 // ページからフレームを受信した時刻
	lastWrite atomic.Int64 // ページへ reset/check/getForm/ping を送った時刻
	lastPong  atomic.Int64 // ブリッジスクリプトが pong を返した時刻

	closed atomic.Bool
}

func NewSession() *Session {
	s := &Session{id: SessionID(uuid.NewString())}
	now := time.Now().UnixNano()
	s.lastRead.Store(now)
	s.lastWrite.Store(now)
	s.lastPong.Store(now)
	return s
}

func (s *Session) ID() SessionID { return s.id }

func (s *Session) TouchRead()  { s.lastRead.Store(time.Now().UnixNano()) }
func (s *Session) TouchWrite() { s.lastWrite.Store(time.Now().UnixNano()) }
func (s *Session) TouchPong()  { s.lastPong.Store(time.Now().UnixNano()) }

// Close はセッションを閉じます。最初の呼び出しだけが true を返します。
func (s *Session) Close() bool {
	return s.closed.CompareAndSwap(false, true)
}

// IsIdle はページが timeout より長く応答していないかを判定します。
// タブが閉じられたりブラウザがスリープした場合、ブリッジは pong も url も送らなくなるので
// 受信と pong の両方が止まります。送信側は reset/check が無い間も ping で更新されます。
// timeout<=0 なら常に false と IdleDisabled を返します。
func (s *Session) IsIdle(timeout time.Duration) (bool, IdleReason) {
	if timeout <= 0 {
		return false, IdleDisabled
	}
	cutoff := time.Now().Add(-timeout).UnixNano()
	var reason IdleReason
	if s.lastRead.Load() < cutoff {
		reason |= IdleRead
	}
	if s.lastWrite.Load() < cutoff {
		reason |= IdleWrite
	}
	if s.lastPong.Load() < cutoff {
		reason |= IdlePong
	}
	return reason != IdleNone, reason
}

// IsClosed はエンドポイントがこのページとの接続を閉じ、Hub からも外れた後で true になります。
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}
