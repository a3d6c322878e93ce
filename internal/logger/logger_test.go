package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")

	if buf.Len() > 0 {
		t.Fatalf("expected no output for info/debug at warn level, got: %s", buf.String())
	}

	log.Warn("should appear", "key", "value")
	out := buf.String()
	if !strings.Contains(out, "should appear") || !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("expected warn record with key, got: %s", out)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "xdma")
	log.Info("attached")

	if !strings.Contains(buf.String(), `"component":"xdma"`) {
		t.Fatalf("expected component attribute, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		level   string
		debug   bool
		want    string
		wantErr bool
	}{
		{format: "json", level: "debug", want: `"msg":"attached"`},
		{format: "text", level: "info", debug: true, want: "msg=attached"},
		{format: "pretty", level: "debug", want: "attached"},
		{format: "", level: "warn", debug: true, want: "attached"},
		{format: "xml", wantErr: true},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		log, err := Setup(&buf, tc.format, tc.level, tc.debug)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Setup(%q): expected error", tc.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Setup(%q): %v", tc.format, err)
		}
		log.Debug("attached")
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("Setup(%q, %q, %v): expected %q in %q", tc.format, tc.level, tc.debug, tc.want, buf.String())
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	Discard().With("a", 1).Error("dropped")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestPrettyHandlerFormatsAttributes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(h.WithGroup("bench").WithAttrs([]slog.Attr{slog.String("run", "r1")}))
	log.Info("trial", "elapsed", 1500*time.Microsecond, "note", "hello world", "ctl", "0x00000001")

	out := buf.String()
	for _, want := range []string{"trial", "bench.run=r1", "bench.elapsed=1.5ms", `bench.note="hello world"`, "bench.ctl=0x00000001"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
	if h.WithGroup("") != h {
		t.Error("WithGroup empty string should return same handler")
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{`has"quote`, true},
		{"", false},
	}

	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.expected {
			t.Errorf("needsQuoting(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestPrettyHandlerNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Warn("short read", "read", 8)

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Fatalf("expected no escape sequences, got %q", out)
	}
	if !strings.Contains(out, "] WARN  short read read=8\n") {
		t.Fatalf("unexpected plain line: %q", out)
	}
}

func TestPrettyHandlerPlainForRegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "run.log"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if got := paletteFor(f); got != plainPalette {
		t.Fatalf("expected plain palette for a regular file")
	}
	if _, ok := os.LookupEnv("NO_COLOR"); !ok {
		if got := paletteFor(&bytes.Buffer{}); got != colorPalette {
			t.Fatalf("expected colors for a non-file writer")
		}
	}
}

func TestPrettyHandlerSiblingsDoNotShareAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewPrettyHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("component", "xdma")})
	a := base.WithAttrs([]slog.Attr{slog.Int("matrix", 1)})
	b := base.WithAttrs([]slog.Attr{slog.Int("vector", 2)})

	slog.New(b).Info("sent")
	slog.New(a).Info("programmed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if strings.Contains(lines[0], "matrix=") || strings.Contains(lines[1], "vector=") {
		t.Fatalf("attrs leaked between sibling handlers: %q", lines)
	}
}
