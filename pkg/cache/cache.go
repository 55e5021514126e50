package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

// Key identifies a (roster configuration, seed) pair
type Key uint64

// String renders the key as fixed-width hex
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Fingerprint hashes the canonical JSON of the input together with the seed.
// encoding/json sorts map keys, so equal inputs hash equally.
func Fingerprint(input models.RosterInput, seed int64) (Key, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return 0, err
	}
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], uint64(seed))
	return Key(xxh3.HashSeed(data, xxh3.Hash(s[:]))), nil
}

// Results keeps solved timetables for reuse. Solves are deterministic for a given
// configuration and seed, so a hit is indistinguishable from a fresh solve.
type Results struct {
	entries *xsync.Map[Key, *scheduler.Result]
	limit   int
}

// New creates a cache holding at most limit results. A non-positive limit disables caching.
func New(limit int) *Results {
	return &Results{entries: xsync.NewMap[Key, *scheduler.Result](), limit: limit}
}

// Get returns a cached result
func (r *Results) Get(k Key) (*scheduler.Result, bool) {
	if r.limit <= 0 {
		return nil, false
	}
	return r.entries.Load(k)
}

// Put stores a result, evicting an arbitrary entry when full
func (r *Results) Put(k Key, res *scheduler.Result) {
	if r.limit <= 0 {
		return
	}
	if _, ok := r.entries.Load(k); !ok && r.entries.Size() >= r.limit {
		r.entries.Range(func(victim Key, _ *scheduler.Result) bool {
			r.entries.Delete(victim)
			return false
		})
	}
	r.entries.Store(k, res)
}

// Len returns the number of cached results
func (r *Results) Len() int {
	return r.entries.Size()
}
