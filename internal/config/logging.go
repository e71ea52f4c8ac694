package config

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is the global zerolog logger instance.
//
//nolint:gochecknoglobals // Intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logFileHandle tracks the current log file for cleanup.
//
//nolint:gochecknoglobals // Tracks the global logger's file handle
var logFileHandle *os.File

// logMu protects concurrent access to logFileHandle and Logger.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.RWMutex

// InitLogger configures the package-level Logger from the logging settings.
// Console output goes to stderr, human-readable when the format is console
// or stderr is a terminal and the format unset, JSON otherwise. When a log
// file is configured its directory is created and output is duplicated
// into the file as JSON lines.
func InitLogger(lc LoggingConfig) error {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(lc.Level)
	if err != nil || lc.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var console io.Writer = os.Stderr
	if useConsoleFormat(lc.Format) {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}
	writers := []io.Writer{console}

	// Close any previously opened log file to prevent handle leaks.
	closeLogFileLocked()

	if lc.File != "" {
		if mkErr := os.MkdirAll(filepath.Dir(lc.File), 0750); mkErr != nil {
			return mkErr
		}
		logFile, fileErr := os.OpenFile(
			lc.File,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0600,
		)
		if fileErr != nil {
			return fileErr
		}
		logFileHandle = logFile
		writers = append(writers, logFile)
	}

	multi := zerolog.MultiLevelWriter(writers...)

	Logger = zerolog.New(multi).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return nil
}

// useConsoleFormat decides whether to use the human-readable console
// writer. An explicit format wins; otherwise console output is used only
// when stderr is a terminal.
func useConsoleFormat(format string) bool {
	switch format {
	case "console":
		return true
	case "json":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// SetLogLevel adjusts the global Logger's level, defaulting to info when
// the level string does not parse.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	Logger = Logger.Level(lvl)
}

// CloseLogFile closes the current log file handle, if any, and resets the
// Logger to console-only output so later writes don't hit a closed file.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

// closeLogFileLocked closes the log file and resets the logger. Must be
// called with logMu held.
func closeLogFileLocked() {
	if logFileHandle != nil {
		_ = logFileHandle.Close()
		logFileHandle = nil

		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		Logger = zerolog.New(consoleWriter).
			Level(Logger.GetLevel()).
			With().
			Timestamp().
			Logger()
	}
}

// GetLogger returns the global logger instance.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

// ComponentLogger returns the global logger tagged with a component name.
func ComponentLogger(component string) zerolog.Logger {
	return GetLogger().With().Str("component", component).Logger()
}

// init sets up a console-only info-level logger so the package never logs
// through an unconfigured zerolog.Logger.
//
//nolint:gochecknoinits // the logger must exist before configuration loads
func init() {
	_ = InitLogger(LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat})
}
