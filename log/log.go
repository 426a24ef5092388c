// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
// Package level loggers are created with WithContext at init time and resolve
// the root handler on every call, so SetDefault in main still reaches them.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels accepted on the command line.
const (
	LvlCrit = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// Levels for handlers built with NewHandlerWithLevel.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	New(ctx ...any) Logger
}

type contextLogger struct {
	ctx []any
}

// WithContext returns a logger that prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// New is an alias of WithContext.
func New(ctx ...any) Logger {
	return WithContext(ctx...)
}

func (l *contextLogger) resolve() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }

func (l *contextLogger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &contextLogger{ctx: append(merged, ctx...)}
}

// Root-level helpers.
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

// SetDefault installs h as the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// FromLegacyLevel maps a legacy verbosity onto a slog level.
func FromLegacyLevel(verbosity int) slog.Level {
	return ethlog.FromLegacyLevel(verbosity)
}

// NewHandler creates the process handler for the given legacy verbosity.
// JSON output is newline delimited, terminal output is colored when useColor is set.
func NewHandler(w io.Writer, verbosity int, json, useColor bool) slog.Handler {
	lvl := new(slog.LevelVar)
	lvl.Set(FromLegacyLevel(verbosity))
	return NewHandlerWithLevel(w, lvl, json, useColor)
}

// NewHandlerWithLevel is NewHandler with a level that may change at runtime.
func NewHandlerWithLevel(w io.Writer, lvl *slog.LevelVar, json, useColor bool) slog.Handler {
	if json {
		return JSONHandlerWithLevel(w, lvl)
	}
	return NewTerminalHandlerWithLevel(w, lvl, useColor)
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return slog.DiscardHandler
}
