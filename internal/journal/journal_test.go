package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppend_TimestampFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_log.txt")
	j := New(path)
	j.now = func() time.Time {
		return time.Date(2025, time.March, 7, 9, 5, 2, 0, time.UTC)
	}
	j.Append("ETL job started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	want := "2025-03-07-09:05:02 : ETL job started\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestAppend_IsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_log.txt")
	j := New(path)
	j.Append("first run")
	j.Append("second run")

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.HasSuffix(lines[0], "first run") || !strings.HasSuffix(lines[1], "second run") {
		t.Errorf("entries out of order or lost: %q", data)
	}
}

func TestAppend_StampsSortLexicographically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_log.txt")
	j := New(path)
	stamps := []time.Time{
		time.Date(2025, time.January, 12, 23, 59, 59, 0, time.UTC),
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 3, 8, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		ts := ts
		j.now = func() time.Time { return ts }
		j.Append("x")
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i-1] >= lines[i] {
			t.Errorf("line %d does not sort after its predecessor:\n%s\n%s", i, lines[i-1], lines[i])
		}
	}
}

func TestAppend_FailureDoesNotPanic(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "missing", "code_log.txt"))
	j.Append("should be swallowed") // must not panic or abort
}
