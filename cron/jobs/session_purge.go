package jobs

import (
	"log"

	"storefront.GO/core/cache"
)

// SessionPurgeJob evicts expired entries from the in-process cache, including
// import sessions held there when Redis is not configured. Redis-backed
// sessions expire on their own via key TTLs.
func SessionPurgeJob(args ...string) {
	if n := cache.GetInstance().PurgeExpired(); n > 0 {
		log.Printf("Session purge: removed %d expired cache entries", n)
	}
}
