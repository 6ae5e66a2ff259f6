package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cardex/internal/application/port"
	"github.com/bnema/cardex/internal/domain/entity"
)

var _ port.Cache[entity.PageKey, *entity.Page] = (*FIFO[entity.PageKey, *entity.Page])(nil)

func TestFIFO_BasicOperations(t *testing.T) {
	cache := NewFIFO[string, int](3)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	val, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	val, ok = cache.Get("notfound")
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, []string{"a", "b", "c"}, cache.Keys())
}

func TestFIFO_EvictsOldestInserted(t *testing.T) {
	cache := NewFIFO[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)

	evicted := cache.Set("c", 3)
	assert.Equal(t, []string{"a"}, evicted)

	assert.False(t, cache.Contains("a"), "a should have been evicted")
	assert.True(t, cache.Contains("b"))
	assert.True(t, cache.Contains("c"))
}

func TestFIFO_GetDoesNotRefreshPosition(t *testing.T) {
	cache := NewFIFO[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Reading "a" would save it under LRU; FIFO still evicts it first.
	_, _ = cache.Get("a")
	_, _ = cache.Get("a")

	cache.Set("c", 3)

	_, ok := cache.Get("a")
	assert.False(t, ok, "a should have been evicted despite recent reads")
	_, ok = cache.Get("b")
	assert.True(t, ok)
}

func TestFIFO_ReplaceKeepsPositionAndSize(t *testing.T) {
	cache := NewFIFO[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)

	evicted := cache.Set("a", 100)
	assert.Empty(t, evicted)
	assert.Equal(t, 2, cache.Len())

	val, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 100, val)

	// "a" was inserted first, so it is still the next victim.
	cache.Set("c", 3)
	assert.False(t, cache.Contains("a"))
	assert.Equal(t, []string{"b", "c"}, cache.Keys())
}

func TestFIFO_SizeNeverExceedsCapacity(t *testing.T) {
	cache := NewFIFO[entity.PageKey, *entity.Page](4)

	for page := 1; page <= 20; page++ {
		cache.Set(entity.NewPageKey("", page), &entity.Page{TotalPages: 20})
		assert.LessOrEqual(t, cache.Len(), 4)
	}

	assert.Equal(t, []entity.PageKey{
		{Term: "", Page: 17},
		{Term: "", Page: 18},
		{Term: "", Page: 19},
		{Term: "", Page: 20},
	}, cache.Keys())
}

func TestFIFO_ZeroCapacity(t *testing.T) {
	// Should default to capacity of 1
	cache := NewFIFO[string, int](0)
	assert.Equal(t, 1, cache.Capacity())

	cache.Set("a", 1)
	val, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	cache.Set("b", 2)
	_, ok = cache.Get("a")
	assert.False(t, ok)
}

func TestFIFO_ConcurrentAccess(t *testing.T) {
	cache := NewFIFO[int, int](16)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			cache.Set(i, i*10)
		}(i)
		go func(i int) {
			defer wg.Done()
			if v, ok := cache.Get(i); ok {
				assert.Equal(t, i*10, v)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 16, cache.Len())
	require.Len(t, cache.Keys(), 16)
}
