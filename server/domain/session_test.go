package domain

import (
	"testing"
	"time"
)

// TestNewSession_InitializesTimestamps は NewSession がタイムスタンプを初期化することを確認します。
func TestNewSession_InitializesTimestamps(t *testing.T) {
	s := NewSession()

	if s.ID() == "" {
		t.Errorf("session id is empty")
	}
	if s.lastRead.Load() == 0 {
		t.Errorf("lastRead is not initialized")
	}
	if s.lastWrite.Load() == 0 {
		t.Errorf("lastWrite is not initialized")
	}
	if s.lastPong.Load() == 0 {
		t.Errorf("lastPong is not initialized")
	}
}

func TestSession_IsIdle(t *testing.T) {
	s := NewSession()

	if idle, reason := s.IsIdle(0); idle || reason != IdleDisabled {
		t.Fatalf("timeout<=0 should disable idle detection, got %v %s", idle, reason)
	}
	if idle, _ := s.IsIdle(time.Minute); idle {
		t.Fatalf("fresh session should not be idle")
	}

	old := time.Now().Add(-time.Hour).UnixNano()
	s.lastPong.Store(old)
	s.lastRead.Store(old)
	idle, reason := s.IsIdle(time.Minute)
	if !idle || !reason.Has(IdlePong) || !reason.Has(IdleRead) || reason.Has(IdleWrite) {
		t.Fatalf("unexpected idle state: %v %s", idle, reason)
	}
	if reason.String() != "read|pong" {
		t.Fatalf("reason string = %q", reason.String())
	}
}

func TestSession_CloseOnce(t *testing.T) {
	s := NewSession()
	if !s.Close() {
		t.Fatalf("first close should succeed")
	}
	if s.Close() {
		t.Fatalf("second close should report false")
	}
	if !s.IsClosed() {
		t.Fatalf("session should be closed")
	}
}
