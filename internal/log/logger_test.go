package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}),
	})
}

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo).WithComponent(ComponentStorage)

	logger.Info("store opened", FieldDBPath, "/tmp/x.db")

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("missing component field: %s", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component field repeated: %s", out)
	}
	if !strings.Contains(out, "db_path=/tmp/x.db") {
		t.Errorf("missing db_path field: %s", out)
	}
	if logger.Component() != ComponentStorage {
		t.Errorf("Component() = %q, want %q", logger.Component(), ComponentStorage)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("lower levels should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn should be logged: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOperationLogger(t *testing.T) {
	var buf bytes.Buffer
	ol := NewOperationLogger(newBufferLogger(&buf, slog.LevelInfo).WithComponent(ComponentBudget))
	ctx := context.Background()

	ol.LogFailure(ctx, "load failed", errors.New("disk full"), OpList, nil)
	ol.LogRejected(ctx, "bad input", errors.New("title required"), ErrorTypeValidation, OpValidate,
		NewFields().WithTransaction(0, "Expense", "12.50"))
	ol.LogSuccess(ctx, "saved", OpCreate, NewFields().WithCategory(7, "Pets"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}

	checks := [][]string{
		{"level=ERROR", `error="disk full"`, "error_type=database_error", "operation=list"},
		{"level=WARN", "error_type=validation_error", "operation=validate", "kind=Expense", "amount=12.50"},
		{"level=INFO", "operation=create", "success=true", "category_id=7", "category_name=Pets"},
	}
	for i, want := range checks {
		for _, w := range want {
			if !strings.Contains(lines[i], w) {
				t.Errorf("line %d missing %q: %s", i, w, lines[i])
			}
		}
	}
	if strings.Contains(lines[1], "transaction_id") {
		t.Errorf("unsaved transaction should not log an id: %s", lines[1])
	}
}

func TestLogFields_ToSliceSorted(t *testing.T) {
	got := NewFields().
		With(FieldRate, "2").
		WithOperation(OpConvert).
		With(FieldCurrency, "€").
		ToSlice()

	want := []any{FieldCurrency, "€", FieldOperation, OpConvert, FieldRate, "2"}
	if len(got) != len(want) {
		t.Fatalf("ToSlice() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToSlice() = %v, want %v", got, want)
		}
	}
}
