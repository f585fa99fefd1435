package corpus

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// ShardRouter picks which of several Redis endpoints owns a given corpus
// key, using rendezvous (highest random weight) hashing so that adding or
// removing an endpoint only reshuffles the keys that belong to that
// endpoint, not the whole keyspace — important for a distributed fuzzing
// farm where workers join and leave mid-run.
type ShardRouter struct {
	rv *rendezvous.Rendezvous
}

// NewShardRouter builds a router over the given endpoint identifiers (e.g.
// "redis-0", "redis-1", ...). endpoints must be non-empty and each name
// unique.
func NewShardRouter(endpoints []string) *ShardRouter {
	return &ShardRouter{rv: rendezvous.New(endpoints, xxhash.Sum64String)}
}

// Endpoint returns which endpoint owns key.
func (r *ShardRouter) Endpoint(key string) string {
	return r.rv.Lookup(key)
}
