package log

import (
	"io"
	"io/ioutil"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// OutputHook writes formatted entries to the configured destination. A
// file destination can be closed and re-opened while logging continues.
type OutputHook struct {
	mu sync.Mutex
	w  io.Writer
	// file descriptor when the destination is a path, nil otherwise
	fd    *os.File
	fname string

	fmt logrus.Formatter
}

// NewOutputHook opens dest and returns a hook writing to it. dest can be
// a file path or one of "stderr", "stdout", "off".
func NewOutputHook(dest string) (*OutputHook, error) {
	h := &OutputHook{fname: dest}
	if err := h.open(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *OutputHook) open() error {
	switch h.fname {
	case "stderr", "":
		h.w = os.Stderr
		h.fmt = &logrus.TextFormatter{}
	case "stdout":
		h.w = os.Stdout
		h.fmt = &logrus.TextFormatter{}
	case "off":
		h.w = ioutil.Discard
		h.fmt = &logrus.TextFormatter{}
	default:
		fd, err := os.OpenFile(h.fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		h.fd = fd
		h.w = fd
		// no colors when writing to a file
		h.fmt = &logrus.TextFormatter{DisableColors: true}
	}
	return nil
}

// Reopen closes a file destination and opens it again, so an external
// rotator can move the old file away first.
func (h *OutputHook) Reopen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fd == nil {
		return nil
	}
	if err := h.fd.Close(); err != nil {
		return err
	}
	h.fd = nil
	return h.open()
}

func (h *OutputHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *OutputHook) Fire(e *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	line, err := h.fmt.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}
