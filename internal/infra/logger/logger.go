package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger struct {
	mu            sync.Mutex
	fileLogger    *log.Logger
	file          *os.File
	console       io.Writer
	level         Level
	includeStdout bool
	prefix        string
}

// New builds a logger writing to console and, when filePath is set, appending
// to that file as well.
func New(console io.Writer, filePath string, level Level, includeStdout bool) (*Logger, error) {
	l := &Logger{
		console:       console,
		level:         level,
		includeStdout: includeStdout,
	}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.fileLogger = log.New(f, "", 0)
	}

	return l, nil
}

// Nop returns a logger that drops everything, handy in tests
func Nop() *Logger {
	return &Logger{console: io.Discard, level: LevelError + 1}
}

// With returns a logger that prefixes every message with tag
func (l *Logger) With(tag string) *Logger {
	return &Logger{
		fileLogger:    l.fileLogger,
		console:       l.console,
		level:         l.level,
		includeStdout: l.includeStdout,
		prefix:        l.prefix + tag + " ",
	}
}

func (l *Logger) log(lvl Level, name string, format string, v ...any) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	fullMsg := fmt.Sprintf("%s [%s] %s%s", timestamp, name, l.prefix, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLogger != nil {
		l.fileLogger.Println(fullMsg)
	}

	if l.includeStdout && l.console != nil {
		fmt.Fprintln(l.console, fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, "DEBUG", f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, "INFO", f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, "WARN", f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, "ERROR", f, v...) }

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
