// Package web は閲覧中のチェックリストページに読み込ませるスクリプトを埋め込みます。
package web

import _ "embed"

// BridgeScript は /ws に接続し、サーバーからのフレームをチェックリストの DOM 操作に変換します。
//
//go:embed bridge.js
var BridgeScript []byte
