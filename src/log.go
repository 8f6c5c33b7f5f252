package afsktnc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Severity mirrors the small set of levels the teacher's text_color_set
// distinguished (DW_COLOR_INFO/ERROR/REC/DECODED/XMIT/DEBUG), collapsed onto
// charmbracelet/log's level set.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
	SeverityReceived
	SeverityDecoded
	SeverityTransmitted
	SeverityDebug
)

// Logger wraps a charmbracelet/log.Logger and, when daily-named files are
// enabled, reopens its output at local midnight (spec.md's ambient-stack
// expansion of the teacher's log_init daily-names feature).
type Logger struct {
	mu        sync.Mutex
	base      *log.Logger
	dailyDir  string
	pattern   *strftime.Strftime
	openName  string
	openFile  *os.File
}

// NewLogger builds a logger writing to w. If dailyDir is non-empty, w is
// ignored and the logger instead opens (and rotates) "<dailyDir>/<date>.log"
// files, one per calendar day, matching the teacher's -l daily-names mode.
func NewLogger(w io.Writer, dailyDir string) (*Logger, error) {
	l := &Logger{}
	if dailyDir != "" {
		pat, err := strftime.New("%Y%m%d.log")
		if err != nil {
			return nil, fmt.Errorf("afsktnc: building daily log pattern: %w", err)
		}
		l.dailyDir = dailyDir
		l.pattern = pat
		w = io.Discard // replaced by rotate() below before first use
	}
	l.base = log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if dailyDir != "" {
		if err := l.rotate(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// rotate opens today's daily log file if it isn't already open, matching
// the teacher's log_init "Automatic daily file names" behavior.
func (l *Logger) rotate() error {
	name := l.pattern.FormatString(time.Now())
	if name == l.openName && l.openFile != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(l.dailyDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("afsktnc: opening daily log %q: %w", name, err)
	}
	old := l.openFile
	l.openFile = f
	l.openName = name
	l.base.SetOutput(f)
	if old != nil {
		old.Close()
	}
	return nil
}

// Log records one line at the given severity, rotating the daily log file
// first if needed.
func (l *Logger) Log(sev Severity, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dailyDir != "" {
		if err := l.rotate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	msg := fmt.Sprintf(format, args...)
	switch sev {
	case SeverityError:
		l.base.Error(msg)
	case SeverityDebug:
		l.base.Debug(msg)
	case SeverityReceived, SeverityDecoded, SeverityTransmitted:
		l.base.Info(msg)
	default:
		l.base.Info(msg)
	}
}

// Close releases any open daily log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.openFile != nil {
		return l.openFile.Close()
	}
	return nil
}
