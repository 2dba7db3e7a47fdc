package refgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	key  string
	self *testNode
}

func TestCache_RegistersBeforeInitializing(t *testing.T) {
	c := NewCache[string, *testNode]()
	calls := 0
	factory := func(k string) *testNode {
		calls++
		return &testNode{key: k}
	}

	v := c.GetOrCreate("a", factory, func(k string, n *testNode) {
		assert.Equal(t, StateRegistered, c.State(k))
		stub, ok := c.Get(k)
		require.True(t, ok)
		assert.Same(t, n, stub)
		n.self = c.GetOrCreate(k, factory, func(string, *testNode) {
			t.Error("re-entrant lookup must not initialize again")
		})
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, v, v.self)
	assert.Equal(t, StateInitialized, c.State("a"))
	assert.Equal(t, StateUnregistered, c.State("b"))
	assert.Same(t, v, c.GetOrCreate("a", factory, nil))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Range(t *testing.T) {
	c := NewCache[string, *testNode]()
	factory := func(k string) *testNode { return &testNode{key: k} }
	c.GetOrCreate("b", factory, func(string, *testNode) {
		c.GetOrCreate("c", factory, nil)
	})
	c.GetOrCreate("a", factory, nil)

	var keys []string
	c.Range(func(k string, n *testNode) bool {
		assert.Equal(t, k, n.key)
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"b", "c", "a"}, keys)

	keys = nil
	c.Range(func(k string, _ *testNode) bool {
		keys = append(keys, k)
		return false
	})
	assert.Equal(t, []string{"b"}, keys)
}

func TestCache_GetMissing(t *testing.T) {
	c := NewCache[int, *testNode]()
	v, ok := c.Get(1)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unregistered", StateUnregistered.String())
	assert.Equal(t, "registered", StateRegistered.String())
	assert.Equal(t, "initialized", StateInitialized.String())
}
