package memstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetGetRemove(t *testing.T) {
	store := New()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Set("user-1", map[string]string{"email": "a@example.com"})
	got, ok := store.Get("user-1")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"email": "a@example.com"}, got)

	// Перезапись значения под тем же ключом
	store.Set("user-1", "replaced")
	got, ok = store.Get("user-1")
	assert.True(t, ok)
	assert.Equal(t, "replaced", got)

	store.Remove("user-1")
	_, ok = store.Get("user-1")
	assert.False(t, ok)

	// Удаление отсутствующего ключа не паникует
	store.Remove("user-1")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", i%10)
			store.Set(key, i)
			store.Get(key)
			store.Remove(key)
		}(i)
	}
	wg.Wait()
}
