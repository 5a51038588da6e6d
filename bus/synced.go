package bus

import (
	"sync"
)

// Synced wraps a Bus with a lock, so a single authoritative owner can
// expose one store to several components once the surrounding emulator
// grows concurrent. The CPU core itself never locks: it is single
// threaded and carries no state between steps.
type Synced struct {
	mu  sync.RWMutex
	bus Bus
}

var _ Bus = (*Synced)(nil)

// NewSynced wraps an existing Bus.
func NewSynced(b Bus) (s *Synced) {
	return &Synced{bus: b}
}

// Read returns the byte at addr.
func (s *Synced) Read(addr uint16) uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bus.Read(addr)
}

// Write stores data at addr.
func (s *Synced) Write(addr uint16, data uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bus.Write(addr, data)
}
