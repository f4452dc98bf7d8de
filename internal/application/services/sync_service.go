package services

import (
	"sync"
	"time"

	"github.com/taskmaster/todo/internal/infrastructure/logger"
)

// SyncState is the displayed state of the sync control
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncSynced  SyncState = "synced"
)

// SyncService simulates a cloud sync for the header control. It never touches
// the network or the task store; it only walks idle -> syncing -> synced -> idle.
type SyncService struct {
	mu       sync.Mutex
	state    SyncState
	syncing  time.Duration
	synced   time.Duration
	timer    *time.Timer
	run      uint64
	watchers []chan SyncState
	logger   *logger.Logger
}

// NewSyncService creates a sync simulation with the given phase durations
func NewSyncService(syncing, synced time.Duration, log *logger.Logger) *SyncService {
	if log == nil {
		log = logger.NewNop()
	}
	return &SyncService{
		state:   SyncIdle,
		syncing: syncing,
		synced:  synced,
		logger:  log.WithComponent("sync"),
	}
}

// State returns the current state
func (s *SyncService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins a simulated sync. It returns false while a previous run is still
// in progress, like the disabled button.
func (s *SyncService) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SyncIdle {
		return false
	}

	s.run++
	run := s.run

	s.setLocked(SyncSyncing)
	s.timer = time.AfterFunc(s.syncing, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.run != run {
			return
		}

		s.setLocked(SyncSynced)
		s.timer = time.AfterFunc(s.synced, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.run != run {
				return
			}
			s.setLocked(SyncIdle)
			s.timer = nil
		})
	})

	s.logger.Infow("Simulated sync started", "syncing", s.syncing, "synced", s.synced)
	return true
}

// Watch returns a channel receiving every state change until Stop.
// Slow readers miss intermediate states rather than blocking the simulation.
func (s *SyncService) Watch() <-chan SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan SyncState, 4)
	s.watchers = append(s.watchers, ch)
	return ch
}

// Stop cancels a running simulation, resets to idle and closes all watchers
func (s *SyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.run++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = SyncIdle
	for _, ch := range s.watchers {
		close(ch)
	}
	s.watchers = nil
}

func (s *SyncService) setLocked(state SyncState) {
	s.state = state
	for _, ch := range s.watchers {
		select {
		case ch <- state:
		default:
		}
	}
}
