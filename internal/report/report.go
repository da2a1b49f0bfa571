// Package report is the messaging boundary between the map core and
// whatever displays its diagnostics.
//
// The core never prints or exits on its own. It calls a Reporter for every
// recoverable or fatal condition and lets the implementation decide what is
// rendered: the Logger honours the quiet/verbose options, the Recorder keeps
// messages in memory for tests and tool responses.
package report

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Reporter receives diagnostic messages.
type Reporter interface {
	Warning(text string)
	Error(text string)
	Debug(text string)
}

// Warningf formats a warning and sends it to r.
func Warningf(r Reporter, format string, args ...any) {
	r.Warning(fmt.Sprintf(format, args...))
}

// Errorf formats an error message and sends it to r.
func Errorf(r Reporter, format string, args ...any) {
	r.Error(fmt.Sprintf(format, args...))
}

// Debugf formats a debug message and sends it to r.
func Debugf(r Reporter, format string, args ...any) {
	r.Debug(fmt.Sprintf(format, args...))
}

// Options gate which messages a Logger renders.
type Options struct {
	// Quiet suppresses regular output. Warnings and errors still render.
	Quiet bool
	// Verbose enables debug messages.
	Verbose bool
}

// Message prefixes.
const (
	PrefixWarning = "[WRN] ~ "
	PrefixError   = "[ERR] ~ "
	PrefixDebug   = "[DBG] ~ "
	PrefixOutput  = "[OUT] ~ "
)

// Logger renders messages through a standard library logger.
type Logger struct {
	log  *log.Logger
	opts Options
}

// NewLogger writes to w with date and time stamps.
func NewLogger(w io.Writer, opts Options) *Logger {
	return &Logger{
		log:  log.New(w, "", log.Ldate|log.Ltime),
		opts: opts,
	}
}

// Warning implements Reporter.
func (l *Logger) Warning(text string) { l.log.Print(PrefixWarning + text) }

// Error implements Reporter.
func (l *Logger) Error(text string) { l.log.Print(PrefixError + text) }

// Debug implements Reporter. It renders only in verbose mode.
func (l *Logger) Debug(text string) {
	if !l.opts.Verbose {
		return
	}
	l.log.Print(PrefixDebug + text)
}

// Info writes regular output unless quiet mode is on.
func (l *Logger) Info(text string) {
	if l.opts.Quiet {
		return
	}
	l.log.Print(PrefixOutput + text)
}

// Discard drops every message.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Warning(string) {}
func (discard) Error(string)   {}
func (discard) Debug(string)   {}

// Level classifies a recorded message.
type Level string

// Recorded message levels.
const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelDebug   Level = "debug"
)

// Entry is one recorded message.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Recorder keeps messages in memory. It is safe for concurrent use.
//
// Limit caps how many entries are kept; further messages are only counted.
// Zero means unlimited.
type Recorder struct {
	Limit int

	mu      sync.Mutex
	entries []Entry
	counts  map[Level]int
}

// Warning implements Reporter.
func (r *Recorder) Warning(text string) { r.add(LevelWarning, text) }

// Error implements Reporter.
func (r *Recorder) Error(text string) { r.add(LevelError, text) }

// Debug implements Reporter.
func (r *Recorder) Debug(text string) { r.add(LevelDebug, text) }

func (r *Recorder) add(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[Level]int)
	}
	r.counts[level]++
	if r.Limit > 0 && len(r.entries) >= r.Limit {
		return
	}
	r.entries = append(r.entries, Entry{Level: level, Text: text})
}

// Entries returns a copy of the kept messages in arrival order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Texts returns the kept messages of one level.
func (r *Recorder) Texts(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Text)
		}
	}
	return out
}

// Count returns how many messages of a level arrived, including dropped ones.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[level]
}

// Tee fans every message out to all reporters.
func Tee(reporters ...Reporter) Reporter {
	return tee(reporters)
}

type tee []Reporter

func (t tee) Warning(text string) {
	for _, r := range t {
		r.Warning(text)
	}
}

func (t tee) Error(text string) {
	for _, r := range t {
		r.Error(text)
	}
}

func (t tee) Debug(text string) {
	for _, r := range t {
		r.Debug(text)
	}
}

// OrDiscard returns r, or Discard when r is nil.
func OrDiscard(r Reporter) Reporter {
	if r == nil {
		return Discard
	}
	return r
}
