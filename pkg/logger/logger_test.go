package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(NewHandler(&buf, slog.LevelInfo, "json"))
	log.Debug("hidden")
	log.Info("boss defeated", "boss", "QueenBee")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not a single json line: %q", buf.String())
	}
	if rec["msg"] != "boss defeated" || rec["boss"] != "QueenBee" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_FansOut(t *testing.T) {
	var text, debug bytes.Buffer
	log := New(
		NewHandler(&text, slog.LevelWarn, "text"),
		nil,
		NewHandler(&debug, slog.LevelDebug, "text"),
	).With("component", "poller")

	log.Debug("tick")
	log.Warn("display failed")

	if strings.Contains(text.String(), "tick") || !strings.Contains(text.String(), "display failed") {
		t.Errorf("warn handler got %q", text.String())
	}
	if !strings.Contains(debug.String(), "tick") || !strings.Contains(debug.String(), "component=poller") {
		t.Errorf("debug handler got %q", debug.String())
	}
}
