package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithFormat("json"); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after json initialization")
	}

	if err := InitWithFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerTextOutput(t *testing.T) {
	SetLevel(slog.LevelInfo)
	var buf bytes.Buffer
	l := New(&buf, FormatText)

	l.Info(context.Background(), "board built", String("mode", "consensus"), Int("players", 3))

	out := buf.String()
	for _, want := range []string{"board built", "mode=consensus", "players=3", "source="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	SetLevel(slog.LevelInfo)
	var buf bytes.Buffer
	l := New(&buf, FormatJSON).Named("ranking").Named("store")

	l.Warn(context.Background(), "load failed", Error(errors.New("boom")), Bool("soft", true))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "load failed" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["logger"] != "ranking.store" {
		t.Errorf("logger = %v", rec["logger"])
	}
	if rec["soft"] != true {
		t.Errorf("soft = %v", rec["soft"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, FormatText)

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	defer SetLevel(slog.LevelInfo)

	l.Info(context.Background(), "hidden")
	l.Debug(context.Background(), "hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Error(context.Background(), "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected error output, got %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	defer SetLevel(slog.LevelInfo)
	for _, lvl := range []string{"debug", "INFO", "", " warning ", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) returned %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
	Nop().Error(context.Background(), "discarded")
}
