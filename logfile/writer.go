package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/wrapper"
)

const filePermission = 0o644

var ErrEmptyPath = errors.New("log file path is empty")

// locks holds one mutex per absolute log path so that writers sharing a
// file in this process never interleave an append with a rotation.
var locks = wrapper.CreateConcurrentSwissMap[string, *sync.Mutex](16)

type Writer interface {
	// Append writes line and rotates the file when it grows past the limit.
	// rotatedPath is empty when no rotation happened.
	Append(line string) (rotatedPath string, err error)
	Path() string
}

type writer struct {
	clock   func() time.Time
	lock    *sync.Mutex
	path    string
	maxSize int64
}

func (w *writer) Path() string {
	return w.path
}

func (w *writer) Append(line string) (string, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err := w.write(line); err != nil {
		return "", err
	}

	return w.rotateIfNeeded()
}

func (w *writer) write(line string) error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}

	if _, err = file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}

	return nil
}

func (w *writer) rotateIfNeeded() (string, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", w.path, err)
	}

	if info.Size() <= w.maxSize {
		return "", nil
	}

	rotatedPath := RotatedName(w.path, w.clock())
	if err = os.Rename(w.path, rotatedPath); err != nil {
		return "", fmt.Errorf("rotate %s: %w", w.path, err)
	}

	return rotatedPath, nil
}

// RotatedName is <path>_<yyyy-MM-dd_HH:mm:ss>.log. Two rotations within the
// same second target the same name.
func RotatedName(path string, at time.Time) string {
	return path + "_" + at.Format(helpers.RotationSuffixLayout) + helpers.RotatedFileExtension
}

func lockFor(path string) *sync.Mutex {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	return locks.LoadOrStore(key, func() *sync.Mutex { return &sync.Mutex{} })
}

func NewWriter(path string, maxSize int64) (Writer, error) {
	return NewWriterWithClock(path, maxSize, time.Now)
}

func NewWriterWithClock(path string, maxSize int64, clock func() time.Time) (Writer, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	return &writer{
		path:    path,
		maxSize: maxSize,
		clock:   clock,
		lock:    lockFor(path),
	}, nil
}
