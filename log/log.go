package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Level represents a logging severity, independent of [slog.Level] so
// callers parsing CLI flags never need to import log/slog directly.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Handler is the [slog.Handler] produced by [NewHandler] and
// [NewHandlerFromStrings].
type Handler = slog.Handler

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects, AddSource enabled.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt key=value pairs, AddSource enabled.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs the same logfmt encoding without source location
	// or timestamp, for a terminal a human is watching interactively.
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// GetAllLevelStrings returns every valid level string, in order of
// increasing severity, for flag help text and shell completion.
func GetAllLevelStrings() []string {
	return []string{string(LevelDebug), string(LevelInfo), string(LevelWarn), string(LevelError)}
}

// GetAllFormatStrings returns every valid format string for flag help text
// and shell completion.
func GetAllFormatStrings() []string {
	return []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
}

// ParseLevel parses a case-insensitive log level string into a [Level].
// "warning" is accepted as a synonym for [LevelWarn].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case string(LevelError):
		return LevelError, nil
	case string(LevelWarn), "warning":
		return LevelWarn, nil
	case string(LevelInfo):
		return LevelInfo, nil
	case string(LevelDebug):
		return LevelDebug, nil
	}

	return "", ErrUnknownLogLevel
}

// ParseFormat parses a case-insensitive log format string into a [Format].
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, f) {
		return f, nil
	}

	return "", ErrUnknownLogFormat
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// NewHandler creates a [Handler] that writes to w at the given level and
// format. format FormatText drops the time and source attributes that
// FormatJSON/FormatLogfmt carry, since an interactive terminal doesn't need
// them repeated on every line.
func NewHandler(w io.Writer, level Level, format Format) Handler {
	opts := &slog.HandlerOptions{
		AddSource: format != FormatText,
		Level:     level.slogLevel(),
	}

	if format == FormatText {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}

	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// NewHandlerFromStrings parses levelStr and formatStr and delegates to
// [NewHandler]. Parse failures are wrapped in [ErrInvalidArgument].
func NewHandlerFromStrings(w io.Writer, levelStr, formatStr string) (Handler, error) {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	format, err := ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, level, format), nil
}
