package clipboard

import "sync"

// Mock is an in-memory Clipboard for tests. It mirrors System's sidecar
// behavior and records every write.
type Mock struct {
	mu      sync.Mutex
	content Content
	writes  []Content
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Read() (Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content, nil
}

func (m *Mock) Write(c Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = c
	m.writes = append(m.writes, c)
	return nil
}

// SetText simulates another program copying text: sidecar metadata is lost.
func (m *Mock) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = Content{Text: text}
}

// Writes returns every Content passed to Write, in order.
func (m *Mock) Writes() []Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Content, len(m.writes))
	copy(out, m.writes)
	return out
}
