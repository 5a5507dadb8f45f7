package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. It backs single-instance
// deployments and serves as the degraded-mode fallback for RedisStore.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[string][]Message
	state   map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		history: make(map[string][]Message),
		state:   make(map[string]State),
	}
}

func (s *MemoryStore) Create(_ context.Context, id string, initial []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(initial))
	copy(msgs, initial)
	s.history[id] = msgs
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, id string) ([]Message, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.history[id]
	if !ok {
		return nil, false, nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, true, nil
}

func (s *MemoryStore) SetMessages(_ context.Context, id string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	s.history[id] = msgs
	return nil
}

func (s *MemoryStore) Append(_ context.Context, id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[id] = append(s.history[id], Message{Role: role, Content: content})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, id)
	delete(s.state, id)
	return nil
}

func (s *MemoryStore) SetState(_ context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[id] = state
	return nil
}

func (s *MemoryStore) State(_ context.Context, id string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.state[id]
	return st, ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.history))
	for id := range s.history {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) ClearAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history) + len(s.state)
	s.history = make(map[string][]Message)
	s.state = make(map[string]State)
	return n, nil
}

// snapshot copies current contents for migration into a recovered backend.
func (s *MemoryStore) snapshot() (map[string][]Message, map[string]State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make(map[string][]Message, len(s.history))
	for id, msgs := range s.history {
		out := make([]Message, len(msgs))
		copy(out, msgs)
		history[id] = out
	}
	state := make(map[string]State, len(s.state))
	for id, st := range s.state {
		state[id] = st
	}
	return history, state
}
