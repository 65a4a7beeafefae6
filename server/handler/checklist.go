package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"checklist/internal/poller"
)

// maxSuffixBytes は PUT /url で受け付ける本文の上限です。
const maxSuffixBytes = 4 << 10

type StatusProvider interface {
	Status() poller.Status
}

type Controller interface {
	Arm(ctx context.Context) error
}

type URLStore interface {
	URLSuffix() string
	SetURLSuffix(suffix string)
}

type BossState struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Defeated bool   `json:"defeated"`
}

type StateResponse struct {
	Running   bool        `json:"running"`
	Hardmode  bool        `json:"hardmode"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Bosses    []BossState `json:"bosses"`
}

// ChecklistHandler はトラッカーの状態とチェックリストサイトへの導線を HTTP で公開します。
type ChecklistHandler struct {
	siteURL string
	status  StatusProvider
	urls    URLStore
	control Controller
}

func NewChecklistHandler(siteURL string, status StatusProvider, urls URLStore, controller Controller) *ChecklistHandler {
	return &ChecklistHandler{
		siteURL: siteURL,
		status:  status,
		urls:    urls,
		control: controller,
	}
}

// Redirect はチェックリストサイトへ URL サフィックス付きでリダイレクトします。
// サフィックスは "?" を除いたクエリ文字列です。
func (h *ChecklistHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	target := h.siteURL
	if suffix := strings.TrimPrefix(h.urls.URLSuffix(), "?"); suffix != "" {
		target += "?" + suffix
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *ChecklistHandler) GetURL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.urls.URLSuffix())
}

func (h *ChecklistHandler) PutURL(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSuffixBytes))
	if err != nil {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}
	suffix := strings.TrimSpace(string(body))
	h.urls.SetURLSuffix(suffix)
	slog.InfoContext(r.Context(), "url suffix updated", "suffix", suffix)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChecklistHandler) GetState(w http.ResponseWriter, r *http.Request) {
	st := h.status.Status()
	resp := StateResponse{
		Running:   st.Running,
		Hardmode:  st.Hardmode,
		UpdatedAt: st.UpdatedAt,
		Bosses:    make([]BossState, 0, len(st.Entries)),
	}
	for _, e := range st.Entries {
		resp.Bosses = append(resp.Bosses, BossState{
			ID:       e.Boss.ID(),
			Name:     e.Boss.DisplayName(),
			Defeated: e.Defeated,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode state", "err", err)
	}
}

func (h *ChecklistHandler) PostArm(w http.ResponseWriter, r *http.Request) {
	if err := h.control.Arm(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "arm failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
