// Package log wraps logrus behind a small Logger interface so the CLI
// can direct its diagnostics to stderr, stdout, a file, or nowhere.
package log

import (
	"io/ioutil"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is what the rest of the program logs through.
type Logger interface {
	logrus.FieldLogger

	// Reopen closes and re-opens the output, for log rotation.
	Reopen() error
	// GetLogDest returns the destination the logger was created with.
	GetLogDest() string
	SetLevel(level string)
	GetLevel() string
	IsDebug() bool
	AddHook(h logrus.Hook)
}

// HookedLogger is a logrus logger whose output goes through an
// OutputHook.
type HookedLogger struct {
	*logrus.Logger

	h    *OutputHook
	dest string
}

var loggers struct {
	sync.Mutex
	cache map[string]Logger
}

// GetLogger returns the Logger writing to dest, creating it on first
// use. dest can be a file path or one of "stderr", "stdout", "off".
// Loggers are cached per dest; subsequent calls get the same instance.
// If the destination cannot be opened the returned logger falls back to
// stderr and the error is reported.
func GetLogger(dest string, level string) (Logger, error) {
	loggers.Lock()
	defer loggers.Unlock()
	if l, ok := loggers.cache[dest]; ok {
		return l, nil
	}

	base := logrus.New()
	base.Out = ioutil.Discard // the hook writes instead

	l := &HookedLogger{Logger: base, dest: dest}
	l.SetLevel(level)
	if loggers.cache == nil {
		loggers.cache = make(map[string]Logger, 1)
	}
	loggers.cache[dest] = l

	h, err := NewOutputHook(dest)
	if err != nil {
		// revert to stderr
		base.Out = os.Stderr
		return l, err
	}
	base.Hooks.Add(h)
	l.h = h
	return l, nil
}

func (l *HookedLogger) AddHook(h logrus.Hook) {
	l.Hooks.Add(h)
}

func (l *HookedLogger) Reopen() error {
	if l.h == nil {
		return nil
	}
	return l.h.Reopen()
}

func (l *HookedLogger) GetLogDest() string {
	return l.dest
}

func (l *HookedLogger) SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	l.Logger.Level = lvl
}

func (l *HookedLogger) GetLevel() string {
	return l.Logger.Level.String()
}

func (l *HookedLogger) IsDebug() bool {
	return l.Logger.Level >= logrus.DebugLevel
}
