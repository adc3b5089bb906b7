// Package schema provides the per-process cache of known device properties
// that backs telemetry auto-discovery.
//
// The cache is a latency optimization only. It is never shared across worker
// instances and must not be treated as a source of truth: the durable store's
// insert-if-absent is the actual correctness mechanism for discovery.
package schema

import "sync"

// Cache tracks, per device, the set of property names already discovered
// during this process lifetime. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	devices map[string]map[string]struct{}
}

// NewCache creates an empty schema cache.
func NewCache() *Cache {
	return &Cache{
		devices: make(map[string]map[string]struct{}),
	}
}

// Loaded reports whether the cache has been primed for the given device.
// An unprimed device must be loaded from the store before diffing.
func (c *Cache) Loaded(deviceID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.devices[deviceID]
	return ok
}

// Load primes the cache for a device with the property names currently known
// to the store. Calling Load again merges rather than replaces, so a
// concurrent Add is never lost.
func (c *Cache) Load(deviceID string, names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	props, ok := c.devices[deviceID]
	if !ok {
		props = make(map[string]struct{}, len(names))
		c.devices[deviceID] = props
	}
	for _, name := range names {
		props[name] = struct{}{}
	}
}

// Known reports whether the property has already been seen for the device.
func (c *Cache) Known(deviceID, property string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	props, ok := c.devices[deviceID]
	if !ok {
		return false
	}
	_, ok = props[property]
	return ok
}

// Add records a property as known for the device.
func (c *Cache) Add(deviceID, property string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	props, ok := c.devices[deviceID]
	if !ok {
		props = make(map[string]struct{})
		c.devices[deviceID] = props
	}
	props[property] = struct{}{}
}

// PropertyCount returns the number of known properties for a device.
func (c *Cache) PropertyCount(deviceID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.devices[deviceID])
}
