package domain

import "context"

//go:generate go tool mockgen -destination=./mocks/dispatcher_mock.go -package=mocks . Dispatcher,SessionRegistry

// Dispatcher はエンドポイントが受信したフレームを上位層へ配送します。
type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID SessionID, frame Frame) error
}

// SessionRegistry は接続中のセッションを管理します。
type SessionRegistry interface {
	Join(sessionID SessionID)
	Leave(sessionID SessionID)
}
