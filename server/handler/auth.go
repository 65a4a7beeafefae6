package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingToken = errors.New("auth: missing bearer token")

// RequireToken は状態を変更するエンドポイントに HS256 の Bearer トークンを要求します。
// secret が空なら認証せずに next を返します。
func RequireToken(secret []byte, next http.Handler) http.Handler {
	if len(secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := verifyBearer(r, secret); err != nil {
			slog.WarnContext(r.Context(), "unauthorized request", "path", r.URL.Path, "err", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="checklist"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func verifyBearer(r *http.Request, secret []byte) error {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return ErrMissingToken
	}
	return verifyToken(raw, secret)
}

// verifyUpgrade は websocket のハンドシェイクを検証します。
// ブラウザの WebSocket はヘッダーを付けられないので ?token= も受け付けます。
func verifyUpgrade(r *http.Request, secret []byte) error {
	if r.Header.Get("Authorization") != "" {
		return verifyBearer(r, secret)
	}
	raw := r.URL.Query().Get("token")
	if raw == "" {
		return ErrMissingToken
	}
	return verifyToken(raw, secret)
}

func verifyToken(raw string, secret []byte) error {
	_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}
