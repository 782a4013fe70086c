// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	stdlog "log"
	"sync"
)

// Sink receives the server's human-readable lines.
//
// Info carries request log lines and lifecycle messages. Error carries a
// server-level error report: the response status, the request URL and either
// the full error detail or just its message, depending on configuration.
type Sink interface {
	Info(msg string)
	Error(status int, url string, detail string)
}

// ZerologSink is a [Sink] that forwards every line to a *Logger.
type ZerologSink struct {
	log *Logger
}

// NewSink returns a Sink writing to l. A nil l discards everything.
func NewSink(l *Logger) *ZerologSink {
	if l == nil {
		l = Nop()
	}
	return &ZerologSink{log: l}
}

// Info logs msg at info level.
func (s *ZerologSink) Info(msg string) {
	s.log.Info().Msg(msg)
}

// Error logs an error report at error level. The status and URL are also
// attached as structured fields.
func (s *ZerologSink) Error(status int, url string, detail string) {
	s.log.Error().
		Int("status", status).
		Str("url", url).
		Msg(detail)
}

// StdLogger returns a *log.Logger that writes each line to the sink at error
// level. It is handed to http.Server.ErrorLog so connection-level failures
// end up next to the rest of the server output.
func StdLogger(l *Logger) *stdlog.Logger {
	if l == nil {
		l = Nop()
	}
	return stdlog.New(&errorWriter{log: l}, "", 0)
}

type errorWriter struct {
	mu  sync.Mutex
	log *Logger
}

func (w *errorWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.log.Error().Str("source", "http").Msg(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

// MemorySink is a [Sink] that keeps every line in memory. It is safe for
// concurrent use and is meant for tests.
type MemorySink struct {
	mu     sync.Mutex
	infos  []string
	errors []ErrorLine
}

// ErrorLine is one report captured by a MemorySink.
type ErrorLine struct {
	Status int
	URL    string
	Detail string
}

// Info records msg.
func (s *MemorySink) Info(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
}

// Error records an error report.
func (s *MemorySink) Error(status int, url string, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, ErrorLine{Status: status, URL: url, Detail: detail})
}

// Infos returns a copy of the captured info lines.
func (s *MemorySink) Infos() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.infos...)
}

// Errors returns a copy of the captured error reports.
func (s *MemorySink) Errors() []ErrorLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorLine(nil), s.errors...)
}
