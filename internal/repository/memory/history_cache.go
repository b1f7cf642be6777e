package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	ragmemory "rtl-support-chatbot-be/pkg/rag/memory"
)

// HistoryCache keeps the recent conversation of active sessions in
// process memory so SendChat does not re-read the full message table on
// every turn. Entries are invalidated on any write to the session.
type HistoryCache struct {
	cache *cache.Cache
}

func NewHistoryCache() *HistoryCache {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &HistoryCache{
		cache: c,
	}
}

func (r *HistoryCache) Save(sessionID string, entries []ragmemory.Entry) {
	r.cache.Set(sessionID, entries, cache.DefaultExpiration)
}

func (r *HistoryCache) Get(sessionID string) ([]ragmemory.Entry, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.([]ragmemory.Entry), true
	}
	return nil, false
}

func (r *HistoryCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
