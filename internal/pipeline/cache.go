package pipeline

import "sync"

// ScanCache is the set of absolute paths already claimed during one
// enumeration. It stops a file from being parsed twice when several expanded
// language ids route to it.
type ScanCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewScanCache returns an empty cache.
func NewScanCache() *ScanCache {
	return &ScanCache{seen: make(map[string]struct{})}
}

// Claim records path and reports whether the caller is the first to see it.
func (c *ScanCache) Claim(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[path]; ok {
		return false
	}
	c.seen[path] = struct{}{}
	return true
}

// Len returns the number of claimed paths.
func (c *ScanCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
