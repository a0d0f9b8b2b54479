package handlers

import (
	"sync"
	"time"

	"solar-sim/internal/service"

	"github.com/google/uuid"
)

// DefaultResultTTL is how long a simulation stays downloadable.
const DefaultResultTTL = 30 * time.Minute

type storedRun struct {
	run       *service.Run
	currency  string
	expiresAt time.Time
}

// ResultStore keeps recent runs in memory so their trace can be fetched
// after the simulate call returns.
type ResultStore struct {
	mu      sync.RWMutex
	runs    map[string]storedRun
	ttl     time.Duration
	now     func() time.Time
	onCount func(int)

	stop     chan struct{}
	stopOnce sync.Once
}

// NewResultStore starts a store with a background sweeper. onCount, if set,
// is called with the number of stored runs after every change.
func NewResultStore(ttl time.Duration, onCount func(int)) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	s := &ResultStore{
		runs:    make(map[string]storedRun),
		ttl:     ttl,
		now:     time.Now,
		onCount: onCount,
		stop:    make(chan struct{}),
	}
	go s.sweep(time.Minute)
	return s
}

// Put stores run and returns its new id.
func (s *ResultStore) Put(run *service.Run, currency string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.runs[id] = storedRun{run: run, currency: currency, expiresAt: s.now().Add(s.ttl)}
	n := len(s.runs)
	s.mu.Unlock()
	s.report(n)
	return id
}

// Get returns an unexpired run and the currency it was priced in.
func (s *ResultStore) Get(id string) (*service.Run, string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.runs[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.run, e.currency, true
}

// Len reports the number of stored runs, expired or not.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Close stops the sweeper. It is safe to call more than once.
func (s *ResultStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *ResultStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *ResultStore) evictExpired() {
	s.mu.Lock()
	now := s.now()
	for id, e := range s.runs {
		if now.After(e.expiresAt) {
			delete(s.runs, id)
		}
	}
	n := len(s.runs)
	s.mu.Unlock()
	s.report(n)
}

func (s *ResultStore) report(n int) {
	if s.onCount != nil {
		s.onCount(n)
	}
}
