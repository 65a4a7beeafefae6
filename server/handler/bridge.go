package handler

import (
	"net/http"

	"checklist/web"
)

// NewBridgeHandler はチェックリストページに読み込ませるブリッジスクリプトを返します。
func NewBridgeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(web.BridgeScript)
	}
}
