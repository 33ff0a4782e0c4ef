package session

import (
	"log/slog"
	"sync"
	"time"

	"freight/internal/core/domain/model/kernel"
)

// Registry holds one live session per driver so that rejections survive
// across requests from the same device. Sessions nobody has used for a while
// are dropped by EvictIdle; a session held by an open stream is never dropped.
type Registry struct {
	reader   Reader
	commands Commander
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[kernel.UUID]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
	holders  int
}

func NewRegistry(reader Reader, commands Commander, logger *slog.Logger) *Registry {
	return &Registry{
		reader:   reader,
		commands: commands,
		logger:   logger,
		entries:  make(map[kernel.UUID]*entry),
	}
}

// Get returns the driver's session, opening it on first use.
func (r *Registry) Get(driverID kernel.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.touch(driverID)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

// Hold returns the driver's session and keeps it from eviction until release
// is called. Release is safe to call more than once.
func (r *Registry) Hold(driverID kernel.UUID) (*Session, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.touch(driverID)
	if err != nil {
		return nil, nil, err
	}
	e.holders++

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			e.holders--
			e.lastSeen = time.Now()
		})
	}
	return e.session, release, nil
}

// EvictIdle forgets every unheld session last used before cutoff, together
// with its rejections, and returns how many were dropped.
func (r *Registry) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for driverID, e := range r.entries {
		if e.holders == 0 && e.lastSeen.Before(cutoff) {
			delete(r.entries, driverID)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) touch(driverID kernel.UUID) (*entry, error) {
	if e, ok := r.entries[driverID]; ok {
		e.lastSeen = time.Now()
		return e, nil
	}

	s, err := New(driverID, r.reader, r.commands, r.logger)
	if err != nil {
		return nil, err
	}
	e := &entry{session: s, lastSeen: time.Now()}
	r.entries[driverID] = e
	return e, nil
}
