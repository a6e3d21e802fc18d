package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/NikoAndroid/Splitties/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// JournalSchemaVersion defines the current schema version for journal files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for journal files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// JournalLockTimeout defines the maximum time to wait for the run lock
	JournalLockTimeout = 5 * time.Second
	// JournalLockRetryInterval defines the interval between lock attempts
	JournalLockRetryInterval = 100 * time.Millisecond
)

// RunJournal records the audit trail of release runs. Acquire refuses a
// second concurrent run on the same checkout; Save persists the run record.
// The journal is never read back to resume a run.
type RunJournal interface {
	Acquire(ctx context.Context) (release func(), err error)
	Save(ctx context.Context, run *domain.ReleaseRun) error
}

// journalMetadata describes the persisted journal file.
type journalMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// journalEntry wraps a run record with metadata.
type journalEntry struct {
	Metadata journalMetadata    `json:"metadata"`
	Run      *domain.ReleaseRun `json:"run"`
}

// JSONRunJournal implements RunJournal using JSON files under a directory.
type JSONRunJournal struct {
	fs   afero.Fs
	dir  string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewJSONRunJournal creates a new JSON-based run journal.
func NewJSONRunJournal(fs afero.Fs, dir string) *JSONRunJournal {
	if dir == "" {
		dir = ".release-runs"
	}
	return &JSONRunJournal{
		fs:  fs,
		dir: dir,
	}
}

// Acquire takes the run lock, refusing if another release run holds it.
// The lock file lives on the real filesystem since advisory locks need one.
func (j *JSONRunJournal) Acquire(ctx context.Context) (func(), error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lock != nil {
		return nil, fmt.Errorf("run lock already held by this process")
	}
	if err := os.MkdirAll(j.dir, JournalDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	lock := flock.New(filepath.Join(j.dir, "release.lock"))
	lockCtx, cancel := context.WithTimeout(ctx, JournalLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, JournalLockRetryInterval)
	if err != nil && err != context.DeadlineExceeded {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another release run is already in progress (lock %s is held)", lock.Path())
	}
	j.lock = lock
	return func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		if j.lock == nil {
			return
		}
		if unlockErr := j.lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to release run lock: %v\n", unlockErr)
		}
		j.lock = nil
	}, nil
}

// Save persists the run record atomically.
func (j *JSONRunJournal) Save(_ context.Context, run *domain.ReleaseRun) error {
	if err := j.fs.MkdirAll(j.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	entry := journalEntry{
		Metadata: journalMetadata{
			SchemaVersion: JournalSchemaVersion,
			UpdatedAt:     time.Now(),
		},
		Run: run,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	filename := filepath.Join(j.dir, fmt.Sprintf("run-%s.json", run.SessionID))
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(j.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp journal file: %w", err)
	}
	if err := j.fs.Rename(tempFile, filename); err != nil {
		if removeErr := j.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp journal file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename journal file: %w", err)
	}
	return nil
}
