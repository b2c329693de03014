// Package accesslog writes one JSONL line per MCP tool call or HTTP request.
package accesslog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry kinds.
const (
	KindTool = "tool"
	KindHTTP = "http"
)

// Entry is the schema for one JSONL line.
type Entry struct {
	Ts            string         `json:"ts"`
	Kind          string         `json:"kind"`
	Name          string         `json:"name"`
	Session       string         `json:"session,omitempty"`
	Params        map[string]any `json:"params,omitempty"`
	Status        int            `json:"status,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	Error         *string        `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use.
// A nil *Logger is valid and discards everything.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens (or creates) the file at path for append-only writing.
// Parent directories are created automatically.
// Returns nil, nil if path is empty.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("accesslog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("accesslog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single entry. Callers usually ignore the error so that
// logging never changes a response.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Record builds an entry that started at start and writes it.
func (l *Logger) Record(kind, name string, start time.Time, params map[string]any, status, responseBytes int, err error) {
	l.RecordSession("", kind, name, start, params, status, responseBytes, err)
}

// RecordSession is Record for a request made within a portal session.
func (l *Logger) RecordSession(session, kind, name string, start time.Time, params map[string]any, status, responseBytes int, err error) {
	if l == nil {
		return
	}
	var errStr *string
	if err != nil {
		msg := err.Error()
		errStr = &msg
	}
	_ = l.Write(Entry{
		Ts:            start.UTC().Format(time.RFC3339),
		Kind:          kind,
		Name:          name,
		Session:       session,
		Params:        SanitizeParams(params),
		Status:        status,
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: responseBytes,
		Error:         errStr,
	})
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args safe for logging.
// String values longer than shortStringMax bytes are replaced with a
// "{key}_len" entry, so pasted URLs or long queries never reach the file.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
