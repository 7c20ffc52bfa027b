package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("fetched trunk", "pod", "FooKit")

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("missing short timestamp: %q", line)
	}
	for _, want := range []string{"fetched trunk", "pod=FooKit"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel} {
		var buf bytes.Buffer
		logger := newLogger(&buf, level)
		logger.Debug("d")
		logger.Info("i")
		logger.Warn("w")

		lines := strings.Count(buf.String(), "\n")
		want := map[log.Level]int{log.DebugLevel: 3, log.InfoLevel: 2, log.WarnLevel: 1}[level]
		if lines != want {
			t.Errorf("level %s: %d lines, want %d", level, lines, want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Fetched FooKit", "examples", 2)

	out := buf.String()
	for _, want := range []string{"Fetched FooKit", "elapsed=", "examples=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("attached logger not returned")
	}
	loggerFromContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Error("attached logger should write to its writer")
	}
}
