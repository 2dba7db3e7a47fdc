package refgraph

// State is the lifecycle stage of a cache entry.
type State int

const (
	StateUnregistered State = iota
	StateRegistered
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateInitialized:
		return "initialized"
	default:
		return "unregistered"
	}
}

type entry[V any] struct {
	value V
	state State
}

// Cache holds one shared value per key. Values are registered before they
// are initialized, so a lookup made while a value is still being built (a
// reference cycle) gets the same partially built value back.
//
// A Cache is not safe for concurrent use; each graph build owns its own.
type Cache[K comparable, V any] struct {
	entries map[K]*entry[V]
	order   []K
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]*entry[V])}
}

// GetOrCreate returns the value for key. On a miss it allocates a shell with
// factory, registers it, then runs initialize on it.
func (c *Cache[K, V]) GetOrCreate(key K, factory func(K) V, initialize func(K, V)) V {
	if e, ok := c.entries[key]; ok {
		return e.value
	}
	e := &entry[V]{value: factory(key), state: StateRegistered}
	c.entries[key] = e
	c.order = append(c.order, key)
	if initialize != nil {
		initialize(key, e.value)
	}
	e.state = StateInitialized
	return e.value
}

// Get returns the value registered for key, initialized or not.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) State(key K) State {
	if e, ok := c.entries[key]; ok {
		return e.state
	}
	return StateUnregistered
}

func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Range calls fn for every entry in registration order until fn returns false.
func (c *Cache[K, V]) Range(fn func(K, V) bool) {
	for _, k := range c.order {
		if !fn(k, c.entries[k].value) {
			return
		}
	}
}
