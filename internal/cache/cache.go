// Package cache holds a bounded LRU over note file bodies. Entries are
// validated against the file's size and modification time on every hit, so
// a stale body is never served; at worst a changed file costs one reread.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type ContentCache struct {
	mu        sync.Mutex
	size      int
	evictList *list.List
	items     map[string]*list.Element
}

type entry struct {
	path    string
	body    []byte
	modTime time.Time
	fsize   int64
}

func NewContentCache(size int) *ContentCache {
	return &ContentCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Get returns the cached body for path when the given stamps still match
// the cached ones. A stale entry is dropped on the spot.
func (c *ContentCache) Get(path string, modTime time.Time, fsize int64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.items[path]
	if !hit {
		return nil, false
	}

	ent := ele.Value.(*entry)
	if ent.fsize != fsize || !ent.modTime.Equal(modTime) {
		c.removeElement(ele)
		return nil, false
	}

	c.evictList.MoveToFront(ele)
	return ent.body, true
}

// Put stores a body under path with its validation stamps.
func (c *ContentCache) Put(path string, body []byte, modTime time.Time, fsize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[path]; hit {
		c.evictList.MoveToFront(ele)
		ent := ele.Value.(*entry)
		ent.body = body
		ent.modTime = modTime
		ent.fsize = fsize
		return
	}

	ele := c.evictList.PushFront(&entry{path: path, body: body, modTime: modTime, fsize: fsize})
	c.items[path] = ele

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// Remove drops the entry for path, if any.
func (c *ContentCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[path]; hit {
		c.removeElement(ele)
	}
}

func (c *ContentCache) removeOldest() {
	if ele := c.evictList.Back(); ele != nil {
		c.removeElement(ele)
	}
}

func (c *ContentCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*entry).path)
}
