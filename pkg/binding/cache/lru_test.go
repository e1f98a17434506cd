package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type op struct {
	typ string
	key string
	val int
}

type want struct {
	val int
	ok  bool
}

func TestLRUCache_Basic(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		ops      []op
		wants    []want
	}{
		{
			name:     "capacity 2, basic put and get",
			capacity: 2,
			ops: []op{
				{typ: "put", key: "a", val: 1},
				{typ: "put", key: "b", val: 2},
				{typ: "get", key: "a"},
				{typ: "put", key: "c", val: 3}, // 淘汰b
				{typ: "get", key: "b"},
				{typ: "get", key: "c"},
			},
			wants: []want{{1, true}, {0, false}, {3, true}},
		},
		{
			name:     "update existing key",
			capacity: 1,
			ops: []op{
				{typ: "put", key: "x", val: 10},
				{typ: "put", key: "x", val: 20},
				{typ: "get", key: "x"},
			},
			wants: []want{{20, true}},
		},
		{
			name:     "unbounded",
			capacity: 0,
			ops: []op{
				{typ: "put", key: "a", val: 1},
				{typ: "put", key: "b", val: 2},
				{typ: "put", key: "c", val: 3},
				{typ: "get", key: "a"},
			},
			wants: []want{{1, true}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewLRUCache[string, int](tc.capacity)
			idx := 0
			for _, o := range tc.ops {
				switch o.typ {
				case "put":
					c.Put(o.key, o.val)
				case "get":
					val, ok := c.Get(o.key)
					assert.Equal(t, tc.wants[idx], want{val, ok}, "Get(%q)", o.key)
					idx++
				}
			}
		})
	}
}

func TestLRUCache_GetOrLoad(t *testing.T) {
	c := NewLRUCache[string, string](0)
	var mu sync.Mutex
	loads := 0
	load := func() string {
		mu.Lock()
		defer mu.Unlock()
		loads++
		return "activity_main"
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "activity_main", c.GetOrLoad("ActivityMainBinding", load))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, c.Len())

	stats := c.Stats()
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 19, stats.Hits)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	c.GetOrLoad("ActivityMainBinding", load)
	assert.Equal(t, 2, loads)
	assert.Equal(t, 2, c.Stats().Misses)
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[string, int](50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", i, j)
				c.Put(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
