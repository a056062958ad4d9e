package cortex

import "sync"

// MessagePatch is a partial update applied to a message by id. Nil fields
// are left untouched (shallow merge).
type MessagePatch struct {
	Content *string
	Phase   *MessagePhase
	Privacy *PrivacyReceipt
	Usage   *Usage
}

// Store is an ordered, append-mostly log of conversation messages. It is
// the only entity permitted to mutate message content. All methods are
// safe to call from timer and stream callbacks.
type Store struct {
	mu    sync.RWMutex
	msgs  []Message
	index map[string]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Append pushes a new message onto the log.
func (s *Store) Append(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[m.ID] = len(s.msgs)
	s.msgs = append(s.msgs, m)
}

// Patch shallow-merges p into the message with the given id. Absent ids
// are a no-op. Content changes are refused once the message phase is
// terminal: content is frozen after complete or error.
func (s *Store) Patch(id string, p MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	m := &s.msgs[i]
	if p.Content != nil && !m.Phase.Terminal() {
		m.Content = *p.Content
	}
	if p.Privacy != nil {
		m.Privacy = p.Privacy
	}
	if p.Usage != nil {
		m.Usage = *p.Usage
	}
	if p.Phase != nil {
		m.Phase = *p.Phase
	}
}

// AppendContent appends text to the message with the given id. It no-ops
// for absent ids and for messages whose phase is terminal, which also
// shields the log from late writes by superseded sessions.
func (s *Store) AppendContent(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	m := &s.msgs[i]
	if m.Phase.Terminal() {
		return
	}
	m.Content += text
}

// Clear empties the log.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = nil
	s.index = make(map[string]int)
}

// Messages returns a copy of the log in append order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Get returns the message with the given id.
func (s *Store) Get(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Message{}, false
	}
	return s.msgs[i], true
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}
