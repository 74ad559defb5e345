package slack

import (
	"container/list"
	"sync"

	"github.com/ternarybob/indago/internal/interfaces"
)

// ConversationStore keeps per-thread state for follow-up actions in a
// bounded LRU. Capacity is fixed at construction; inserting past it evicts
// the conversation touched longest ago.
type ConversationStore struct {
	mu    sync.Mutex
	cap   int
	order *list.List
	items map[string]*list.Element
}

type conversationEntry struct {
	key   string
	state interfaces.ConversationState
}

func NewConversationStore(capacity int) *ConversationStore {
	if capacity < 1 {
		capacity = 1
	}
	return &ConversationStore{
		cap:   capacity,
		order: list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

// ConversationKey builds the store key for a channel and thread timestamp.
func ConversationKey(channel, threadTS string) string {
	return channel + ":" + threadTS
}

func (s *ConversationStore) Get(key string) (interfaces.ConversationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elem, ok := s.items[key]
	if !ok {
		return interfaces.ConversationState{}, false
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*conversationEntry).state, true
}

func (s *ConversationStore) Put(key string, state interfaces.ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, state)
}

// Update applies fn under the store lock so concurrent mutations of the
// same conversation cannot interleave. A missing key starts from the zero
// state and counts as an insert.
func (s *ConversationStore) Update(key string, fn func(*interfaces.ConversationState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.order.MoveToFront(elem)
		fn(&elem.Value.(*conversationEntry).state)
		return
	}
	var state interfaces.ConversationState
	fn(&state)
	s.put(key, state)
}

func (s *ConversationStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.order.Remove(elem)
		delete(s.items, key)
	}
}

func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// put assumes the lock is held.
func (s *ConversationStore) put(key string, state interfaces.ConversationState) {
	if elem, ok := s.items[key]; ok {
		s.order.MoveToFront(elem)
		elem.Value.(*conversationEntry).state = state
		return
	}
	for len(s.items) >= s.cap {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*conversationEntry).key)
	}
	s.items[key] = s.order.PushFront(&conversationEntry{key: key, state: state})
}
