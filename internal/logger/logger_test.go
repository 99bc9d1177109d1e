package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tysek64/DrugiTinder/internal/config"
)

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Component: "test", Output: &buf})

	Info("stage finished", "rows", 42)

	out := buf.String()
	if !strings.Contains(out, "stage finished") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "rows=42") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "info", Format: FormatJSON, Component: "json_test", Output: &buf})

	ForStage("swipe").Info("committed", "took", 1500*time.Microsecond)

	out := buf.String()
	if !strings.Contains(out, `"msg":"committed"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"stage":"swipe"`) {
		t.Errorf("expected stage field, got: %s", out)
	}
	if !strings.Contains(out, `"took":"2ms"`) {
		t.Errorf("expected rounded duration, got: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "warn", Format: FormatText, Output: &buf})

	Info("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestInitFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.Log.Level = "error"
	cfg.Log.Component = "populate"

	InitFromConfig(cfg)
	if L() == nil {
		t.Fatal("expected logger")
	}
	InitFromConfig(nil)
	if L() == nil {
		t.Fatal("expected logger after nil config")
	}
}
