package catalog

import (
	"strconv"
	"sync"
	"time"
)

const idPrefix = "project-"

// IDGenerator issues "project-<n>" identifiers. n follows the wall clock in
// milliseconds but is always strictly greater than the previously issued value,
// so two calls within the same tick never collide.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh identifier. taken reports identifiers already present in
// the collection; they are skipped.
func (g *IDGenerator) Next(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	id := idPrefix + strconv.FormatInt(n, 10)
	for taken != nil && taken(id) {
		n++
		id = idPrefix + strconv.FormatInt(n, 10)
	}
	g.last = n
	return id
}
