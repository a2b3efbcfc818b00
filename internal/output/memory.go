package output

import (
	"context"
	"sort"
	"sync"
)

// MemorySink keeps documents in memory.
type MemorySink struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemorySink() *MemorySink { return &MemorySink{docs: map[string][]byte{}} }

func (m *MemorySink) Write(ctx context.Context, name string, html []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string][]byte{}
	}
	m.docs[name] = append([]byte(nil), html...)
	return "memory://" + name, nil
}

func (m *MemorySink) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.docs[name]
	return append([]byte(nil), b...), ok
}

func (m *MemorySink) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.docs))
	for k := range m.docs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
