// Package logger provides structured logging and an in-memory buffer of
// recent entries.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/NaveLIL/lyrics-overlay/config"
	"github.com/NaveLIL/lyrics-overlay/storage"
)

// DefaultBufferSize is the number of entries kept for recentLog before
// the configuration is applied.
const DefaultBufferSize = 200

// Logger is the application logger.
type Logger struct {
	*logrus.Logger
	logFile     *lumberjack.Logger
	config      *config.LoggingConfig
	hook        *BufferedHook
	initialized bool
}

var (
	instance *Logger
	once     sync.Once
)

// Get returns the singleton logger instance.
func Get() *Logger {
	once.Do(func() {
		instance = &Logger{
			Logger: logrus.New(),
			hook:   NewBufferedHook(DefaultBufferSize),
		}
		// stdout carries the control protocol.
		instance.SetOutput(os.Stderr)
		instance.AddHook(instance.hook)
	})
	return instance
}

// Init initializes the logger with the provided configuration.
func (l *Logger) Init(cfg *config.LoggingConfig, configDir string) error {
	l.config = cfg

	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// Set formatter
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     cfg.Colors,
	})

	if cfg.BufferSize > 0 {
		l.hook.GetBuffer().Resize(cfg.BufferSize)
	}

	// Set output
	if cfg.ToFile {
		logPath := cfg.FilePath
		if !filepath.IsAbs(logPath) {
			logPath = filepath.Join(configDir, logPath)
		}

		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		// Parse max file size
		maxSize := 10 // Default 10 MB
		if cfg.MaxFileSize != "" {
			fmt.Sscanf(cfg.MaxFileSize, "%dMB", &maxSize)
		}

		l.logFile = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}

		// Write to both file and stderr
		l.SetOutput(io.MultiWriter(os.Stderr, l.logFile))
	} else {
		l.SetOutput(os.Stderr)
	}

	l.initialized = true
	l.Info("Logger initialized")
	return nil
}

// Component returns an entry tagged with the component name.
func (l *Logger) Component(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// Recent returns up to limit of the most recent entries, oldest first,
// optionally restricted to the given levels. A non-positive limit returns
// everything buffered.
func (l *Logger) Recent(limit int, levels ...string) []LogEntry {
	entries := l.hook.GetBuffer().GetFiltered(levels...)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// ExportLogs exports the log buffer to a file.
func (l *Logger) ExportLogs(path string, entries []LogEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range entries {
		_, err := fmt.Fprintf(file, "[%s] %s: %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the logger and associated resources.
func (l *Logger) Close() {
	l.Info("Logger closed")
	if l.logFile != nil {
		l.logFile.Close()
	}
}

// LogEntry represents a buffered log entry.
type LogEntry struct {
	Timestamp time.Time `json:"time"`
	Level     string    `json:"level"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
}

// LogBuffer keeps the most recent log entries in memory.
type LogBuffer struct {
	*storage.RingBuffer[LogEntry]
}

// NewLogBuffer creates a new log buffer with the specified capacity.
func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{storage.NewRingBuffer[LogEntry](capacity)}
}

// GetFiltered returns log entries filtered by level.
func (b *LogBuffer) GetFiltered(levels ...string) []LogEntry {
	all := b.GetAll()
	if len(levels) == 0 {
		return all
	}

	levelSet := make(map[string]bool)
	for _, l := range levels {
		levelSet[l] = true
	}

	var filtered []LogEntry
	for _, entry := range all {
		if levelSet[entry.Level] {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int { return b.Size() }

// BufferedHook is a logrus hook that writes entries to a LogBuffer.
type BufferedHook struct {
	buffer *LogBuffer
}

// NewBufferedHook creates a new BufferedHook.
func NewBufferedHook(capacity int) *BufferedHook {
	return &BufferedHook{
		buffer: NewLogBuffer(capacity),
	}
}

// Levels returns the log levels this hook should be called for.
func (h *BufferedHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire is called when a log entry is made.
func (h *BufferedHook) Fire(entry *logrus.Entry) error {
	component, _ := entry.Data["component"].(string)
	h.buffer.Add(LogEntry{
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
		Component: component,
		Message:   entry.Message,
	})
	return nil
}

// GetBuffer returns the underlying log buffer.
func (h *BufferedHook) GetBuffer() *LogBuffer {
	return h.buffer
}
