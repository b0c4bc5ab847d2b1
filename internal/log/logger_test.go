package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"ledger/internal/core"
)

func TestLoggerComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelDebug, Component: ComponentStore, Output: buf})

	l.Info("transaction added", FieldTransactionID, "abc")

	out := buf.String()
	if !strings.Contains(out, "component=store") || !strings.Contains(out, "transaction_id=abc") {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component logged more than once: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: buf}).WithComponent(ComponentSync)
	l.Warn("upload failed")
	if !strings.Contains(buf.String(), "component=sync") || strings.Count(buf.String(), "component=") != 1 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if l.Component() != ComponentSync {
		t.Fatalf("Component() = %s", l.Component())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelWarn, Output: buf})
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := New(DefaultConfig()).WithComponent(ComponentWorker)
	fallback := New(DefaultConfig())
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx, fallback) != l {
		t.Fatal("expected the stored logger")
	}
	if FromContext(context.Background(), fallback) != fallback {
		t.Fatal("expected the fallback logger")
	}
	if FromContext(context.Background(), nil).Component() != "unknown" {
		t.Fatal("expected the default logger")
	}
}

func TestErrorType(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}, ErrorTypeValidation},
		{fmt.Errorf("wrapped: %w", &core.NotFoundError{Kind: "budget", ID: "x"}), ErrorTypeNotFound},
		{&core.PersistenceError{Op: "save", Err: fmt.Errorf("disk full")}, ErrorTypePersistence},
		{&core.SyncError{Op: "upload", Err: fmt.Errorf("timeout")}, ErrorTypeSync},
		{fmt.Errorf("boom"), ErrorTypeInternal},
	}
	for _, tc := range cases {
		if got := ErrorType(tc.err); got != tc.want {
			t.Errorf("ErrorType(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
	f := NewFields().WithOperation(OpAdd).WithError(cases[0].err)
	if f[FieldErrorType] != ErrorTypeValidation || len(f.ToSlice()) != 6 {
		t.Fatalf("unexpected fields %v", f)
	}
}
