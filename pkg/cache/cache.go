package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Cache is a weighted, least recently used cache. Once the total weight of
// its entries exceeds the budget, the least recently used entries are evicted.
type Cache interface {
	// Insert adds or replaces the value for key, marking it as most recently used
	Insert(key string, value interface{}, weight int)

	// Retrieve gets the value for key, marking it as most recently used
	Retrieve(key string) (interface{}, bool)

	// GetWeight returns the current total weight of all entries
	GetWeight() int

	// GetBudget returns the maximum total weight of all entries
	GetBudget() int

	// Clear removes all entries
	Clear()
}

type entry struct {
	prev, next *entry

	key    string
	value  interface{}
	weight int
}

type cache struct {
	log *logrus.Entry

	mu     sync.Mutex
	head   *entry
	tail   *entry
	lookup map[string]*entry
	weight int
	budget int
}

// NewCache returns a new Cache bounded by budget
func NewCache(name string, budget int) Cache {
	return &cache{
		log: logrus.StandardLogger().WithFields(logrus.Fields{
			"type":  "cache",
			"cache": name,
		}),
		lookup: make(map[string]*entry),
		budget: budget,
	}
}

func (c *cache) Insert(key string, value interface{}, weight int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.lookup[key]; ok {
		c.weight += weight - existing.weight
		existing.value = value
		existing.weight = weight
		c.moveToFront(existing)
	} else {
		added := &entry{
			key:    key,
			value:  value,
			weight: weight,
		}
		c.pushFront(added)
		c.lookup[key] = added
		c.weight += weight
	}

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		delete(c.lookup, evicted.key)
		c.weight -= evicted.weight

		c.log.WithFields(logrus.Fields{
			"key":          evicted.key,
			"weight":       evicted.weight,
			"spare_weight": c.budget - c.weight,
		}).Trace("evicted cache entry")
	}
}

func (c *cache) Retrieve(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	found, ok := c.lookup[key]
	if !ok {
		return nil, false
	}

	c.moveToFront(found)
	return found.value, true
}

func (c *cache) GetWeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

func (c *cache) GetBudget() int {
	return c.budget
}

func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*entry)
	c.weight = 0
}

func (c *cache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *cache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *cache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
