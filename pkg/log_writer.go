package pkg

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
)

// LogWriter fans log lines out to several sinks (stdout, rotated file).
// A sink that fails does not stop the others, and a write only fails when no sink took the whole line.
type LogWriter struct {
	mu       sync.Mutex
	sinks    []io.Writer
	failures []int
}

func NewLogWriter(sinks ...io.Writer) *LogWriter {
	lw := &LogWriter{}
	for _, s := range sinks {
		if s != nil {
			lw.sinks = append(lw.sinks, s)
		}
	}
	lw.failures = make([]int, len(lw.sinks))
	return lw
}

func (lw *LogWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	var errs error
	delivered := false
	for i, s := range lw.sinks {
		n, err := s.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			lw.failures[i]++
			errs = multierr.Append(errs, fmt.Errorf("log sink %d: %w", i, err))
			continue
		}
		delivered = true
	}

	if delivered {
		return len(p), nil
	}
	if errs == nil {
		// no sinks at all
		return len(p), nil
	}
	return 0, errs
}

// Failures returns the number of failed writes per sink, in the order the sinks were given.
func (lw *LogWriter) Failures() []int {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return append([]int(nil), lw.failures...)
}
