package logtail

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_TextHandlerRecord(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Warn("sync failed", "id", "7", "op", "delete", "error", `delete: server (status 500): "db down"`)

	e := Parse(strings.TrimSpace(buf.String()))
	if e.Level != slog.LevelWarn {
		t.Fatalf("Level = %s, want WARN", e.Level)
	}
	if e.Message != "sync failed" {
		t.Fatalf("Message = %q, want %q", e.Message, "sync failed")
	}
	if e.Time.IsZero() || time.Since(e.Time) > time.Minute {
		t.Fatalf("Time = %v, want now", e.Time)
	}
	if v, _ := e.Attr("op"); v != "delete" {
		t.Fatalf("op = %q, want delete", v)
	}
	if v, _ := e.Attr("error"); v != `delete: server (status 500): "db down"` {
		t.Fatalf("error = %q, want the unquoted value", v)
	}
	if len(e.Attrs) != 3 {
		t.Fatalf("Attrs = %v, want 3", e.Attrs)
	}
}

func TestParse_PlainLine(t *testing.T) {
	e := Parse("panic: runtime error: index out of range")
	if e.Level != slog.LevelInfo || e.Message != "panic: runtime error: index out of range" {
		t.Fatalf("Parse = %+v, want raw INFO entry", e)
	}
	if len(e.Attrs) != 0 {
		t.Fatalf("Attrs = %v, want none", e.Attrs)
	}
}

func TestTail_FiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantel.log")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("request", "status", 200)
	logger.Info("list refreshed", "resource", "estoque", "count", 3)
	logger.Warn("list failed", "kind", "network")
	logger.Error("session invalidated")
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Tail(path, 10, slog.LevelWarn)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(got) != 2 || got[0].Message != "list failed" || got[1].Level != slog.LevelError {
		t.Fatalf("Tail = %+v, want the warn and error records", got)
	}

	got, err = Tail(path, 2, slog.LevelDebug)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(got) != 2 || got[0].Message != "list failed" {
		t.Fatalf("Tail = %+v, want the last two records", got)
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read = %v, %v; want nil, nil", lines, err)
	}
}
