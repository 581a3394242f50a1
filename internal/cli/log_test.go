package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("traced 3 levels")
	if !strings.Contains(buf.String(), "traced 3 levels") {
		t.Errorf("progress output %q does not contain the message", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("expected a default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestVerboseFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "small.toml", smallTOML)

	_, stderr, err := run(t, "cut", in, "-o", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "traced core") {
		t.Errorf("debug output without --verbose: %q", stderr)
	}

	_, stderr, err = run(t, "-v", "cut", in, "-o", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "traced core") {
		t.Errorf("expected debug output with --verbose, got %q", stderr)
	}
}
