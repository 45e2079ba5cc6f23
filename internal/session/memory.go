package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID  int64
	expires time.Time
}

// MemoryBackend keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between instances.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (b *MemoryBackend) Save(_ context.Context, sid string, userID int64, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[sid] = memoryEntry{userID: userID, expires: b.now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Load(_ context.Context, sid string) (int64, bool, error) {
	b.mu.RLock()
	entry, ok := b.sessions[sid]
	b.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}

	if !b.now().Before(entry.expires) {
		b.mu.Lock()
		delete(b.sessions, sid)
		b.mu.Unlock()
		return 0, false, nil
	}
	return entry.userID, true, nil
}

func (b *MemoryBackend) Delete(_ context.Context, sid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessions, sid)
	return nil
}
