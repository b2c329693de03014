package accesslog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("unmarshal line %q: %v", line, err)
		}
		got = append(got, e)
	}
	return got
}

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys map[string]bool
		wantSkip map[string]bool
	}{
		{
			name:     "nil map returns empty",
			input:    nil,
			wantKeys: map[string]bool{},
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"query": "trade"},
			wantKeys: map[string]bool{"query": true},
		},
		{
			name:     "long string replaced with _len key",
			input:    map[string]any{"url": string(make([]byte, 200))},
			wantKeys: map[string]bool{"url_len": true},
			wantSkip: map[string]bool{"url": true},
		},
		{
			name:     "bool passes through",
			input:    map[string]any{"preview": true},
			wantKeys: map[string]bool{"preview": true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			for k := range tc.wantKeys {
				if _, ok := out[k]; !ok {
					t.Errorf("expected key %q in output", k)
				}
			}
			for k := range tc.wantSkip {
				if _, ok := out[k]; ok {
					t.Errorf("unexpected key %q in output", k)
				}
			}
		})
	}
}

func TestLoggerRecordAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	start := time.Now()
	logger.Record(KindTool, "list_apps", start, map[string]any{"query": "trade"}, 0, 120, nil)
	logger.Record(KindHTTP, "GET /", start, nil, 200, 4096, nil)
	logger.Record(KindTool, "get_app", start, map[string]any{"key": "x"}, 0, 0, errors.New("app not found"))

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if got[0].Kind != KindTool || got[0].Name != "list_apps" {
		t.Errorf("line 0: kind=%q name=%q", got[0].Kind, got[0].Name)
	}
	if got[1].Status != 200 || got[1].ResponseBytes != 4096 {
		t.Errorf("line 1: status=%d bytes=%d", got[1].Status, got[1].ResponseBytes)
	}
	if got[2].Error == nil || *got[2].Error != "app not found" {
		t.Errorf("line 2: error=%v", got[2].Error)
	}
	if got[0].Error != nil {
		t.Errorf("line 0: unexpected error %q", *got[0].Error)
	}
}

func TestLoggerRecordSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.RecordSession("sess-1", KindHTTP, "GET /", time.Now(), nil, 200, 10, nil)
	logger.Record(KindTool, "list_apps", time.Now(), nil, 0, 2, nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].Session != "sess-1" {
		t.Errorf("line 0: session=%q, want sess-1", got[0].Session)
	}
	if got[1].Session != "" {
		t.Errorf("line 1: session=%q, want empty", got[1].Session)
	}
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(Entry{Ts: time.Now().UTC().Format(time.RFC3339), Kind: KindHTTP, Name: "GET /"})
			}
		}()
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(readEntries(t, path)); n != goroutines*writesEach {
		t.Errorf("got %d lines, want %d", n, goroutines*writesEach)
	}
}

func TestNewLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "access.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestNilLoggerIsDisabled(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger != nil {
		t.Fatalf("expected nil logger for empty path")
	}
	if err := logger.Write(Entry{}); err != nil {
		t.Errorf("Write on nil logger: %v", err)
	}
	logger.Record(KindHTTP, "GET /", time.Now(), nil, 200, 0, nil)
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}
