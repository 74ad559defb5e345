package slack

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/interfaces"
)

func TestConversationStore_PutAndGet(t *testing.T) {
	store := NewConversationStore(10)
	key := ConversationKey("C123", "1700000000.000100")

	store.Put(key, interfaces.ConversationState{CompanyName: "Acme", QAEnabled: true})

	state, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "Acme", state.CompanyName)
	assert.True(t, state.QAEnabled)

	_, ok = store.Get(ConversationKey("C123", "other"))
	assert.False(t, ok)
}

func TestConversationStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := NewConversationStore(10)
	for i := 0; i < 10; i++ {
		store.Put(fmt.Sprintf("C1:%d", i), interfaces.ConversationState{CompanyName: fmt.Sprintf("co-%d", i)})
	}

	// Touching the oldest entry promotes it, so the next insert must
	// evict entry 1 instead.
	_, ok := store.Get("C1:0")
	require.True(t, ok)

	store.Put("C1:10", interfaces.ConversationState{CompanyName: "co-10"})

	assert.Equal(t, 10, store.Len())
	_, ok = store.Get("C1:0")
	assert.True(t, ok, "recently used entry survived")
	_, ok = store.Get("C1:1")
	assert.False(t, ok, "least recently used entry evicted")
}

func TestConversationStore_UpdateCreatesAndMutates(t *testing.T) {
	store := NewConversationStore(5)
	key := ConversationKey("C9", "1.2")

	store.Update(key, func(state *interfaces.ConversationState) {
		state.CompanyName = "Acme"
	})
	store.Update(key, func(state *interfaces.ConversationState) {
		state.QAEnabled = true
	})

	state, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "Acme", state.CompanyName)
	assert.True(t, state.QAEnabled)
	assert.Equal(t, 1, store.Len())
}

func TestConversationStore_ConcurrentUpdates(t *testing.T) {
	store := NewConversationStore(4)
	key := "C1:1"
	store.Put(key, interfaces.ConversationState{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(key, func(state *interfaces.ConversationState) {
				state.Summary += "x"
			})
		}()
	}
	wg.Wait()

	state, ok := store.Get(key)
	require.True(t, ok)
	assert.Len(t, state.Summary, 50)
}

func TestConversationStore_Delete(t *testing.T) {
	store := NewConversationStore(5)
	store.Put("a", interfaces.ConversationState{})
	store.Delete("a")
	store.Delete("missing")

	_, ok := store.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}
