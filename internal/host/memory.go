package host

import "sync"

// Memory is an in-process widget tree. Embedding hosts update it from their
// UI thread; tests use it to script widget states and faults.
type Memory struct {
	mu      sync.RWMutex
	widgets map[ComponentID]Widget
	fault   error
}

// NewMemory creates an empty widget tree.
func NewMemory() *Memory {
	return &Memory{widgets: make(map[ComponentID]Widget)}
}

// SetHidden creates or updates a widget.
func (m *Memory) SetHidden(id ComponentID, hidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets[id] = Widget{ID: id, Hidden: hidden}
}

// Remove deletes a widget so lookups report it absent.
func (m *Memory) Remove(id ComponentID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.widgets, id)
}

// SetFault makes every lookup fail with err until cleared with nil.
func (m *Memory) SetFault(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fault = err
}

// Widget implements Client.
func (m *Memory) Widget(id ComponentID) (*Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.fault != nil {
		return nil, m.fault
	}
	w, ok := m.widgets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}
