// Package state persists the caller-owned draft state of uvd: the cached
// draft list, bookmarks, just-seen ids, the list view preference and the last
// pending-feed snapshot.
//
// Every file is written atomically and all read-modify-write cycles run
// under an exclusive lock, so concurrent uvd processes never lose updates.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/uvd/pkg/drafts"
)

// File names inside the state dir.
const (
	DraftsFile    = "drafts.json"
	BookmarksFile = "bookmarks.json"
	SeenFile      = "seen.json"
	ViewFile      = "view.json"
	PendingFile   = "pending.json"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// ErrCorruptState is returned when a state file cannot be decoded.
var ErrCorruptState = errors.New("corrupt state file")

// Snapshot is the full persisted state.
type Snapshot struct {
	Drafts    []drafts.Draft
	Bookmarks *drafts.IDSet
	Seen      *drafts.IDSet
	Pending   *drafts.IDSet
	View      drafts.ViewState
}

// Store reads and writes a state dir.
type Store struct {
	dir string
}

// Open returns a store for dir. Nothing is created until the first update.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the state dir.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the current state. Missing files load as empty.
func (s *Store) Load() (Snapshot, error) {
	snap, _, err := s.load()

	return snap, err
}

// Update runs fn on the current state under the store lock and writes back
// every file whose encoding changed. If fn returns an error nothing is
// written.
func (s *Store) Update(fn func(*Snapshot) error) error {
	return withLock(s.dir, LockTimeout, func() error {
		snap, before, err := s.load()
		if err != nil {
			return err
		}

		err = fn(&snap)
		if err != nil {
			return err
		}

		after, err := encode(snap)
		if err != nil {
			return err
		}

		for _, name := range fileNames {
			if bytes.Equal(before[name], after[name]) {
				continue
			}

			err = s.write(name, after[name])
			if err != nil {
				return err
			}
		}

		return nil
	})
}

var fileNames = []string{DraftsFile, BookmarksFile, SeenFile, ViewFile, PendingFile}

// load decodes all files and also returns the canonical encoding of what was
// loaded, for change detection.
func (s *Store) load() (Snapshot, map[string][]byte, error) {
	snap := Snapshot{
		Drafts:    []drafts.Draft{},
		Bookmarks: drafts.NewIDSet(),
		Seen:      drafts.NewIDSet(),
		Pending:   drafts.NewIDSet(),
		View:      drafts.DefaultViewState(),
	}

	targets := map[string]any{
		DraftsFile:    &snap.Drafts,
		BookmarksFile: snap.Bookmarks,
		SeenFile:      snap.Seen,
		PendingFile:   snap.Pending,
	}

	for _, name := range []string{DraftsFile, BookmarksFile, SeenFile, PendingFile} {
		data, ok, err := s.read(name)
		if err != nil {
			return Snapshot{}, nil, err
		}

		if !ok {
			continue
		}

		err = json.Unmarshal(data, targets[name])
		if err != nil {
			return Snapshot{}, nil, fmt.Errorf("%w %s: %w", ErrCorruptState, filepath.Join(s.dir, name), err)
		}
	}

	if snap.Drafts == nil {
		snap.Drafts = []drafts.Draft{}
	}

	data, ok, err := s.read(ViewFile)
	if err != nil {
		return Snapshot{}, nil, err
	}

	if ok {
		snap.View = drafts.DecodeViewState(data)
	}

	// Missing files encode like their empty value, so Update leaves them
	// missing until something is stored in them.
	encoded, err := encode(snap)
	if err != nil {
		return Snapshot{}, nil, err
	}

	return snap, encoded, nil
}

func (s *Store) read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("reading %s: %w", name, err)
	}

	return data, true, nil
}

func (s *Store) write(name string, data []byte) error {
	err := os.MkdirAll(s.dir, dirPerms)
	if err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	err = atomic.WriteFile(filepath.Join(s.dir, name), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

func encode(snap Snapshot) (map[string][]byte, error) {
	list := snap.Drafts
	if list == nil {
		list = []drafts.Draft{}
	}

	values := map[string]any{
		DraftsFile:    list,
		BookmarksFile: orEmpty(snap.Bookmarks),
		SeenFile:      orEmpty(snap.Seen),
		PendingFile:   orEmpty(snap.Pending),
		ViewFile:      snap.View.Fields(),
	}

	out := make(map[string][]byte, len(values))

	for name, v := range values {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}

		out[name] = append(data, '\n')
	}

	return out, nil
}

func orEmpty(s *drafts.IDSet) *drafts.IDSet {
	if s == nil {
		return drafts.NewIDSet()
	}

	return s
}
