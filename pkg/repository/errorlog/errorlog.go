package errorlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const (
	// rotateThreshold is the line count that triggers a rewrite
	rotateThreshold = 1000
	// rotateKeep is how many trailing lines survive a rotation
	rotateKeep = 500
)

// Logger is the append-only JSONL diagnostic log. Appends are serialized by
// a mutex; write-path failures are swallowed so logging can never crash the
// process or propagate into a tool response.
type Logger struct {
	mu    sync.Mutex
	path  string
	clock clockwork.Clock
}

var _ interfaces.ErrorLogger = &Logger{}

type Option func(*Logger)

// WithClock replaces the wall clock (for tests)
func WithClock(clock clockwork.Clock) Option {
	return func(l *Logger) {
		l.clock = clock
	}
}

// New creates a Logger backed by the given file path
func New(path string, opts ...Option) *Logger {
	l := &Logger{
		path:  path,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPath returns the conventional log location under the home directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slack-mcp-server", "error.log")
}

// Path returns the backing file path
func (l *Logger) Path() string {
	return l.path
}

// Append writes one record and rotates the file when it grows past the
// threshold. All failures are swallowed.
func (l *Logger) Append(rec model.ErrorRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.clock.Now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		logging.Default().Debug("failed to encode error log record", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		logging.Default().Debug("failed to create error log directory", "error", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.Default().Debug("failed to open error log", "error", err)
		return
	}
	_, werr := f.Write(append(line, '\n'))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		logging.Default().Debug("failed to append error log", "write_error", werr, "close_error", cerr)
		return
	}

	l.rotate()
}

// rotate rewrites the file with the trailing rotateKeep lines once the line
// count exceeds rotateThreshold. Failures are swallowed.
func (l *Logger) rotate() {
	lines, err := l.readLines()
	if err != nil {
		logging.Default().Debug("failed to read error log for rotation", "error", err)
		return
	}
	if len(lines) <= rotateThreshold {
		return
	}

	kept := lines[len(lines)-rotateKeep:]
	if err := l.writeLines(kept); err != nil {
		logging.Default().Debug("failed to rotate error log", "error", err)
	}
}

// ReadRecent returns up to limit records, newest first. A missing file reads
// as empty; malformed lines are skipped. A non-positive limit returns
// everything.
func (l *Logger) ReadRecent(limit int) ([]model.ErrorRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.readLines()
	if err != nil {
		return nil, err
	}

	records := make([]model.ErrorRecord, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		var rec model.ErrorRecord
		if err := json.Unmarshal(lines[i], &rec); err != nil {
			continue
		}
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Clear removes records strictly before the cutoff and returns how many
// lines were removed. A nil cutoff removes everything. Lines that cannot be
// parsed are removed as well.
func (l *Logger) Clear(before *time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.readLines()
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	if before == nil {
		if err := l.writeLines(nil); err != nil {
			return 0, err
		}
		return len(lines), nil
	}

	kept := make([][]byte, 0, len(lines))
	for _, line := range lines {
		var rec model.ErrorRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Timestamp.Before(*before) {
			continue
		}
		kept = append(kept, line)
	}

	if err := l.writeLines(kept); err != nil {
		return 0, err
	}
	return len(lines) - len(kept), nil
}

// readLines returns all non-empty lines. A missing file reads as empty.
func (l *Logger) readLines() ([][]byte, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read error log", goerr.V("path", l.path))
	}

	raw := bytes.Split(data, []byte("\n"))
	lines := make([][]byte, 0, len(raw))
	for _, line := range raw {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (l *Logger) writeLines(lines [][]byte) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(l.path, buf.Bytes(), 0o644); err != nil {
		return goerr.Wrap(err, "failed to rewrite error log", goerr.V("path", l.path))
	}
	return nil
}
