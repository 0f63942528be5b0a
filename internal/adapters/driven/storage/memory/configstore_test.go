package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gemini-2.5-flash"))
	require.NoError(t, store.Set("telegram.port", int64(8443)))
	require.NoError(t, store.Set("bot.history", true))

	assert.Equal(t, "gemini-2.5-flash", store.GetString("llm.model"))
	assert.Equal(t, 8443, store.GetInt("telegram.port"))
	assert.True(t, store.GetBool("bot.history"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", 42))

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_Unset(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("llm.api_key", "secret"))

	require.NoError(t, store.Unset("llm.api_key"))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
	assert.NoError(t, store.Unset("never-set"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
			_ = store.GetInt("counter")
		}(i)
	}
	wg.Wait()
}
