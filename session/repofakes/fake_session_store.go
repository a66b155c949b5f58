package fakesessionstore

import (
	"sync"

	"github.com/tuinue-wasichana/go-client/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store for tests.
type FakeStore struct {
	mu          sync.RWMutex
	current     session.Session
	subscribers map[int]func(session.Session)
	nextSubID   int

	SetCalls   int
	ClearCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{subscribers: map[int]func(session.Session){}}
}

func (fs *FakeStore) Get() session.Session {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.current
}

func (fs *FakeStore) Set(s session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	fs.mu.Lock()
	fs.current = s
	fs.SetCalls++
	subs := fs.snapshotSubscribers()
	fs.mu.Unlock()

	for _, notify := range subs {
		notify(s)
	}
	return nil
}

// Clear replaces the session without counting as a Set, so call-count
// assertions can tell the two apart.
func (fs *FakeStore) Clear() error {
	fs.mu.Lock()
	fs.current = session.Session{}
	fs.ClearCalls++
	subs := fs.snapshotSubscribers()
	fs.mu.Unlock()

	for _, notify := range subs {
		notify(session.Session{})
	}
	return nil
}

func (fs *FakeStore) snapshotSubscribers() []func(session.Session) {
	subs := make([]func(session.Session), 0, len(fs.subscribers))
	for _, fn := range fs.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (fs *FakeStore) Subscribe(fn func(session.Session)) func() {
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
