package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FrameType はブリッジスクリプトとの間でやり取りするメッセージの種別です。
type FrameType string

const (
	// server -> page
	FrameAssign    FrameType = "assign"  // セッションID通知
	FrameReset     FrameType = "reset"   // resetBosses()
	FrameCheck     FrameType = "check"   // checkBoss(name)
	FrameFormQuery FrameType = "getForm" // getForm(name) の問い合わせ
	FramePing      FrameType = "ping"

	// page -> server
	FrameFormReply FrameType = "form" // getForm の結果
	FrameURL       FrameType = "url"  // ページのクエリ文字列
	FrameArm       FrameType = "arm"  // 追跡の再開始
	FramePong      FrameType = "pong"
)

// Frame はJSONテキストメッセージ1つです。
//
//	{"type":"check","name":"queen_bee"}
//	{"type":"getForm","id":"<uuid>","name":"twinsForm"}
//	{"type":"form","id":"<uuid>","value":"spazmatism"}
type Frame struct {
	Type  FrameType `json:"type"`
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name,omitempty"`
	Value string    `json:"value,omitempty"`
}

var (
	ErrEmptyFrame       = errors.New("protocol: empty frame")
	ErrMissingFrameType = errors.New("protocol: frame has no type")
)

// ParseFrame はバイト列からFrameをパースする
func ParseFrame(data []byte) (Frame, error) {
	if len(data) == 0 {
		return Frame{}, ErrEmptyFrame
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("protocol: %w", err)
	}
	if f.Type == "" {
		return Frame{}, ErrMissingFrameType
	}
	return f, nil
}

// Encode はFrameをバイト列にエンコードする
func (f Frame) Encode() []byte {
	// 文字列フィールドだけなので Marshal は失敗しない
	data, _ := json.Marshal(f)
	return data
}

func EncodeAssignMessage(sessionID SessionID) []byte {
	return Frame{Type: FrameAssign, ID: sessionID.String()}.Encode()
}

func EncodeResetMessage() []byte {
	return Frame{Type: FrameReset}.Encode()
}

func EncodeCheckMessage(name string) []byte {
	return Frame{Type: FrameCheck, Name: name}.Encode()
}

func EncodeFormQuery(requestID, group string) []byte {
	return Frame{Type: FrameFormQuery, ID: requestID, Name: group}.Encode()
}

func EncodePingMessage(sessionID SessionID) []byte {
	return Frame{Type: FramePing, ID: sessionID.String()}.Encode()
}
