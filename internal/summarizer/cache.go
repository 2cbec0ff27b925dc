package summarizer

import (
	"strings"
	"sync"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const memoMaxEntries = 1024

// memoKey identifies a summary inside one process. The same review text
// may be summarized differently per category and per model.
type memoKey struct {
	model    string
	category domain.Category
	text     string
}

func newMemoKey(model string, req Request) memoKey {
	return memoKey{
		model:    strings.TrimSpace(model),
		category: req.Category,
		text:     strings.TrimSpace(req.Text),
	}
}

// memo holds structured summaries for the lifetime of the process. Entries
// never expire; once full the oldest insert is dropped first.
type memo struct {
	mu      sync.Mutex
	entries map[memoKey]string
	ring    []memoKey
	next    int
}

func newMemo(maxEntries int) *memo {
	if maxEntries <= 0 {
		return nil
	}

	return &memo{
		entries: make(map[memoKey]string, maxEntries),
		ring:    make([]memoKey, 0, maxEntries),
	}
}

func (m *memo) get(key memoKey) (domain.Summary, bool) {
	if m == nil {
		return domain.Summary{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	text, ok := m.entries[key]
	if !ok {
		return domain.Summary{}, false
	}

	return domain.Summary{Text: text}, true
}

func (m *memo) put(key memoKey, summary domain.Summary) {
	if m == nil || key.text == "" || summary.Unstructured || summary.Text == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		m.entries[key] = summary.Text
		return
	}

	if len(m.ring) < cap(m.ring) {
		m.ring = append(m.ring, key)
	} else {
		delete(m.entries, m.ring[m.next])
		m.ring[m.next] = key
		m.next = (m.next + 1) % len(m.ring)
	}

	m.entries[key] = summary.Text
}

func (m *memo) len() int {
	if m == nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
