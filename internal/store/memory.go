package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/communitysubs/subcue/internal/cue"
)

// Memory is an in-process Store for tests and scratch sessions.
type Memory struct {
	mu   sync.RWMutex
	cues map[string]cue.Cue
}

func NewMemory() *Memory {
	return &Memory{cues: make(map[string]cue.Cue)}
}

func (m *Memory) Cue(ctx context.Context, id string) (cue.Cue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cues[id]
	if !ok {
		return cue.Cue{}, fmt.Errorf("cue %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (m *Memory) CuesByTranscript(ctx context.Context, transcriptID string) ([]cue.Cue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cues := []cue.Cue{}
	for _, c := range m.cues {
		if c.TranscriptID == transcriptID {
			cues = append(cues, c)
		}
	}
	return cues, nil
}

func (m *Memory) Put(ctx context.Context, c cue.Cue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cues[c.ID] = c
	return nil
}

func (m *Memory) PutBulk(ctx context.Context, cues []cue.Cue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cues {
		m.cues[c.ID] = c
	}
	return nil
}

func (m *Memory) DeleteBulk(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.cues, id)
	}
	return nil
}
