// Package logger provides the leveled logger shared by pdfmark components.
// Every message is appended to the log file; when verbose mode is enabled
// via the --verbose flag, messages are also printed to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the log file created inside the log directory.
const FileName = "pdfmark.log"

// Logger writes [DEBUG], [INFO] and [WARN] lines. A nil *Logger is valid
// and discards everything.
type Logger struct {
	mu      sync.Mutex
	verbose bool
	file    io.Writer
	console io.Writer
	closer  io.Closer
}

// New creates a logger writing every level to file and, when verbose,
// to console. Either writer may be nil.
func New(file, console io.Writer, verbose bool) *Logger {
	return &Logger{
		verbose: verbose,
		file:    file,
		console: console,
	}
}

// Setup creates dir if needed and returns a logger appending to
// <dir>/pdfmark.log with stderr as the verbose console.
func Setup(dir string, verbose bool) (*Logger, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := New(f, os.Stderr, verbose)
	l.closer = f
	return l, nil
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	return New(nil, nil, false)
}

// SetVerbose enables or disables console output.
func (l *Logger) SetVerbose(v bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetConsole replaces the verbose output writer. Useful for testing and
// for the TUI, which owns the terminal.
func (l *Logger) SetConsole(w io.Writer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.write("[DEBUG] "+format+"\n", args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.write("[INFO] "+format+"\n", args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.write("[WARN] "+format+"\n", args...)
}

// Section writes a section header.
func (l *Logger) Section(name string) {
	l.write("\n=== %s ===\n", name)
}

// Close closes the log file opened by Setup.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.closer.Close()
	l.closer = nil
	l.file = nil
	return err
}

func (l *Logger) write(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
	if l.verbose && l.console != nil {
		fmt.Fprintf(l.console, format, args...)
	}
}
