package cache

type node[K comparable, V any] struct {
	key  K
	val  V
	prev *node[K, V]
	next *node[K, V]
}

// LRU is a bounded map with least-recently-used eviction. Get, Put and
// Remove are O(1): a hash lookup plus constant-time splicing in a doubly
// linked recency list. Not safe for concurrent use; callers serialize.
type LRU[K comparable, V any] struct {
	maxSize int
	items   map[K]*node[K, V]
	head    *node[K, V] // sentinel, head.next is the most recently used
	tail    *node[K, V] // sentinel, tail.prev is the eviction candidate
}

func NewLRU[K comparable, V any](maxSize int) *LRU[K, V] {
	if maxSize < 1 {
		maxSize = 1
	}
	ret := &LRU[K, V]{
		maxSize: maxSize,
		items:   make(map[K]*node[K, V], maxSize),
		head:    &node[K, V]{},
		tail:    &node[K, V]{},
	}
	ret.head.next = ret.tail
	ret.tail.prev = ret.head
	return ret
}

// Get returns the cached value and refreshes its recency.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	if n, ok := c.items[key]; ok {
		c.moveToFront(n)
		return n.val, true
	}
	var zero V
	return zero, false
}

// Put inserts or updates a value, evicting the least recently used entry
// when the capacity is exceeded.
func (c *LRU[K, V]) Put(key K, val V) {
	if n, ok := c.items[key]; ok {
		n.val = val
		c.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, val: val}
	c.items[key] = n
	c.pushFront(n)
	if len(c.items) > c.maxSize {
		victim := c.tail.prev
		c.unlink(victim)
		delete(c.items, victim.key)
	}
}

func (c *LRU[K, V]) Remove(key K) bool {
	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

func (c *LRU[K, V]) Len() int     { return len(c.items) }
func (c *LRU[K, V]) MaxSize() int { return c.maxSize }

func (c *LRU[K, V]) Purge() {
	c.items = make(map[K]*node[K, V], c.maxSize)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Keys lists the cached keys, most recently used first.
func (c *LRU[K, V]) Keys() []K {
	ret := make([]K, 0, len(c.items))
	for n := c.head.next; n != c.tail; n = n.next {
		ret = append(ret, n.key)
	}
	return ret
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if c.head.next == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}
