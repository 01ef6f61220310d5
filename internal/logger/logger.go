package logger

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Logger writes a trace of every HTTP exchange
type Logger struct {
	*log.Logger
	file *os.File
	// Redact lists header names whose values are masked in the trace
	Redact []string
}

// Exchange is one request/response pair as seen by the transport
type Exchange struct {
	Method         string
	URL            string
	RequestHeader  http.Header
	RequestBody    []byte
	StatusCode     int
	ResponseHeader http.Header
	ResponseBody   []byte
	Duration       time.Duration
	Err            error
}

// NewLogger creates a new logger instance writing to a timestamped file in logDir
func NewLogger(logDir string) (*Logger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("exchanges_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := New(file)
	l.file = file
	return l, nil
}

// New creates a logger writing to w
func New(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", log.LstdFlags)}
}

// Path returns the log file path, or "" when not writing to a file
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogExchange logs a request and its outcome as one block, so that
// exchanges from concurrent suites do not interleave
func (l *Logger) LogExchange(ex Exchange) {
	if l == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s %s\n", ex.Method, ex.URL)
	l.writeHeaders(&b, "Request Header", ex.RequestHeader)
	if len(ex.RequestBody) > 0 {
		fmt.Fprintf(&b, "Request Body: %s\n", ex.RequestBody)
	}
	if ex.Err != nil {
		fmt.Fprintf(&b, "Error: %v (after %s)\n", ex.Err, ex.Duration)
	} else {
		fmt.Fprintf(&b, "Response Status Code: %d (%s)\n", ex.StatusCode, ex.Duration)
		l.writeHeaders(&b, "Response Header", ex.ResponseHeader)
		fmt.Fprintf(&b, "Response Body: %s\n", ex.ResponseBody)
	}
	b.WriteString("---")
	l.Println(b.String())
}

func (l *Logger) writeHeaders(b *strings.Builder, label string, h http.Header) {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := strings.Join(h[name], ", ")
		if l.redacted(name) {
			value = "***"
		}
		fmt.Fprintf(b, "%s: %s: %s\n", label, name, value)
	}
}

func (l *Logger) redacted(name string) bool {
	for _, r := range l.Redact {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
