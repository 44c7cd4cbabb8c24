package ledger

import (
	lru "github.com/hashicorp/golang-lru"
)

const defaultAccountCacheSize = 1024

// accountCache is a read-through LRU over account lookups. It only ever holds
// deep copies and is invalidated synchronously by every mutation touching the
// account, so a hit can never observe pre-mutation state after the mutation
// returned.
type accountCache struct {
	lru *lru.Cache
}

func newAccountCache(size int) *accountCache {
	if size <= 0 {
		size = defaultAccountCacheSize
	}
	c, _ := lru.New(size)
	return &accountCache{lru: c}
}

func (c *accountCache) get(id int64) (*Account, bool) {
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Account).clone(), true
}

func (c *accountCache) put(a *Account) {
	c.lru.Add(a.ID, a.clone())
}

func (c *accountCache) invalidate(id int64) {
	c.lru.Remove(id)
}

func (c *accountCache) purge() {
	c.lru.Purge()
}
