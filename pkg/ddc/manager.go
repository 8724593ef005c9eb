package ddc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/internal/logger"
)

// Manager is the root object for multi display use.
// It owns a set of named display connections.
type Manager struct {
	displays map[string]*Display
	mu       sync.RWMutex
	logger   logger.Logger
}

// NewManager creates a new manager using the default logger
func NewManager() *Manager {
	return NewManagerWithLogger(logger.GetDefault())
}

// NewManagerWithLogger creates a new manager with custom logger
func NewManagerWithLogger(log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Manager{
		displays: make(map[string]*Display),
		logger:   log,
	}
}

// AddDisplay creates a display connection over b. On failure b is left open.
func (m *Manager) AddDisplay(id string, b bus.Bus) (*Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.displays[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDisplayExists, id)
	}

	d, err := New(b, Config{ID: id}, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create display: %w", err)
	}

	m.displays[id] = d
	m.logger.Info("Manager: Added display %s", id)
	return d, nil
}

// Open opens the bus described by cfg and adds a display over it
func (m *Manager) Open(ctx context.Context, cfg BusConfig) (*Display, error) {
	m.mu.RLock()
	_, exists := m.displays[cfg.ID]
	m.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDisplayExists, cfg.ID)
	}

	b, err := OpenBus(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d, err := m.AddDisplay(cfg.ID, b)
	if err != nil {
		b.Close()
		return nil, err
	}
	return d, nil
}

// RemoveDisplay closes and removes a display
func (m *Manager) RemoveDisplay(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, exists := m.displays[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrDisplayNotFound, id)
	}

	if err := d.Close(); err != nil {
		m.logger.Error("Error closing display %s: %v", id, err)
	}

	delete(m.displays, id)
	m.logger.Info("Manager: Removed display %s", id)
	return nil
}

// Display returns a display by ID
func (m *Manager) Display(id string) (*Display, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, exists := m.displays[id]
	return d, exists
}

// IDs returns the display IDs in sorted order
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.displays))
	for id := range m.displays {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisplayCount returns the number of displays
func (m *Manager) DisplayCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.displays)
}

// Shutdown closes every display
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Manager: Shutting down")

	for id, d := range m.displays {
		if err := d.Close(); err != nil {
			m.logger.Error("Error closing display %s: %v", id, err)
		}
	}

	m.displays = make(map[string]*Display)
	m.logger.Info("Manager: Shutdown complete")
	return nil
}

// SetLogger sets the logger for displays added afterwards
func (m *Manager) SetLogger(log logger.Logger) {
	m.mu.Lock()
	m.logger = log
	m.mu.Unlock()
}
