package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCachedTopServableFor(t *testing.T) {
	// Snapshot computed for 10 and filled completely: requests up to the
	// stored size serve, anything larger may be truncated and misses.
	full := cachedTop{Size: 10, Entries: make([]cachedEntry, 10)}
	assert.True(t, full.servableFor(5))
	assert.True(t, full.servableFor(10))
	assert.False(t, full.servableFor(15))

	// Fewer entries than the stored size means the catalog was exhausted:
	// the snapshot is the complete ranking and serves any limit. A request
	// for the same size it was computed for must serve too.
	exhausted := cachedTop{Size: 10, Entries: make([]cachedEntry, 3)}
	assert.True(t, exhausted.servableFor(3))
	assert.True(t, exhausted.servableFor(10))
	assert.True(t, exhausted.servableFor(100))

	empty := cachedTop{Size: 10}
	assert.True(t, empty.servableFor(1))
}
