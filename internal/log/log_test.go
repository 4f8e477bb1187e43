package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// capture installs a text logger writing to a buffer at verbosity v.
func capture(t *testing.T, v int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Options{Verbosity: v, Format: FormatText, Output: &buf})
	t.Cleanup(func() { Init(Options{Verbosity: VerbosityWarn}) })
	return &buf
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		expected  slog.Level
	}{
		{0, slog.LevelError},
		{-1, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{4, LevelTrace},
		{5, LevelTrace}, // anything > 4 maps to trace
	}

	for _, tt := range tests {
		got := VerbosityToLevel(tt.verbosity)
		if got != tt.expected {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.expected)
		}
	}
}

func TestLevelToVerbosity(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected int
	}{
		{slog.LevelError, VerbosityError},
		{slog.LevelWarn, VerbosityWarn},
		{slog.LevelInfo, VerbosityInfo},
		{slog.LevelDebug, VerbosityDebug},
		{LevelTrace, VerbosityTrace},
	}

	for _, tt := range tests {
		got := LevelToVerbosity(tt.level)
		if got != tt.expected {
			t.Errorf("LevelToVerbosity(%v) = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{LevelTrace, "TRACE"},
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO"},
		{slog.LevelWarn, "WARN"},
		{slog.LevelError, "ERROR"},
	}

	for _, tt := range tests {
		got := LevelName(tt.level)
		if got != tt.expected {
			t.Errorf("LevelName(%v) = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSetVerbosity(t *testing.T) {
	capture(t, 1)

	SetVerbosity(3)
	if Verbosity() != 3 {
		t.Errorf("Verbosity() = %d, want 3", Verbosity())
	}

	SetVerbosity(0)
	if Verbosity() != 0 {
		t.Errorf("Verbosity() = %d, want 0", Verbosity())
	}

	SetVerbosity(9)
	if Verbosity() != VerbosityTrace {
		t.Errorf("Verbosity() = %d, want %d", Verbosity(), VerbosityTrace)
	}
}

func TestErrorAlwaysLogged(t *testing.T) {
	buf := capture(t, VerbosityError)

	Warn("hidden")
	Error("command failed", "error", "boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("warn should be filtered at v=0, got: %s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "error=boom") {
		t.Errorf("error should appear at v=0, got: %s", out)
	}
}

func TestLevelsFilter(t *testing.T) {
	buf := capture(t, VerbosityInfo)

	Info("walk finished")
	Debug("visiting directory")
	Trace("record")

	out := buf.String()
	if !strings.Contains(out, "walk finished") {
		t.Errorf("info should appear at v=2, got: %s", out)
	}
	if strings.Contains(out, "visiting directory") || strings.Contains(out, "record") {
		t.Errorf("debug and trace should be filtered at v=2, got: %s", out)
	}
}

func TestTraceLevelName(t *testing.T) {
	buf := capture(t, VerbosityTrace)

	Trace("synthesized", "file", "a.c")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace records should be labelled TRACE, got: %s", buf.String())
	}
}

func TestComponent(t *testing.T) {
	buf := capture(t, VerbosityInfo)

	Component("walker").Info("test message")

	if !strings.Contains(buf.String(), "component=walker") {
		t.Errorf("Component should add component context, got: %s", buf.String())
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer

	handler := NewHandler(HandlerOptions{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	slog.New(handler).Info("test", "key", "value")

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("JSON handler should output JSON, got: %s", buf.String())
	}
}

func TestNewHandler_DefaultOutput(t *testing.T) {
	handler := NewHandler(HandlerOptions{
		Level:  slog.LevelInfo,
		Format: FormatText,
	})

	if handler == nil {
		t.Error("NewHandler should not return nil")
	}
}
