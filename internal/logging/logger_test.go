package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	logger, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a nop logger when no level is configured")
	}
}

func TestNew_UsesEnvironment(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	logger, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) || !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn level from environment")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if OrNop(nil) == nil {
		t.Fatalf("OrNop must never return nil")
	}
}
