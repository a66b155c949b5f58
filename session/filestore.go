package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// FileStore persists the session to a JSON file so a restarted process
// reconstructs it without re-authenticating. All four fields are written
// and cleared together; writes go through a temp file and rename so a
// crashed write can never leave a half-written session on disk.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu          sync.RWMutex
	current     Session
	subscribers map[int]func(Session)
	nextSubID   int
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads any previously persisted session from path. A missing
// file is the logged-out state; an unreadable or partial one is discarded
// (fail-closed) rather than surfaced as a live session.
func NewFileStore(path string, log zerolog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	fs := &FileStore{
		path:        path,
		log:         log,
		subscribers: map[int]func(Session){},
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, errors.Wrap(err, "[NewFileStore] read session file")
	}

	var loaded Session
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding unreadable session file")
		return fs, fs.Clear()
	}
	if err := loaded.Validate(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding partial persisted session")
		return fs, fs.Clear()
	}
	fs.current = loaded
	return fs, nil
}

// Get returns the current session.
func (fs *FileStore) Get() Session {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.current
}

// Set replaces the session and persists it.
func (fs *FileStore) Set(s Session) error {
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "[FileStore.Set]")
	}

	fs.mu.Lock()
	if err := fs.persist(s); err != nil {
		fs.mu.Unlock()
		return errors.Wrap(err, "[FileStore.Set] persist")
	}
	fs.current = s
	subs := fs.snapshotSubscribers()
	fs.mu.Unlock()

	for _, notify := range subs {
		notify(s)
	}
	return nil
}

// Clear replaces the session with the logged-out state.
func (fs *FileStore) Clear() error {
	return fs.Set(Session{})
}

// Subscribe registers a callback for session replacements. The returned
// cancel removes it.
func (fs *FileStore) Subscribe(fn func(Session)) func() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	id := fs.nextSubID
	fs.nextSubID++
	fs.subscribers[id] = fn
	return func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		delete(fs.subscribers, id)
	}
}

func (fs *FileStore) snapshotSubscribers() []func(Session) {
	subs := make([]func(Session), 0, len(fs.subscribers))
	for _, fn := range fs.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (fs *FileStore) persist(s Session) error {
	if s.IsZero() {
		if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(err, "remove session file")
		}
		return nil
	}

	encoded, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}
