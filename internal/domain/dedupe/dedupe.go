// Package dedupe maps transcript digests to the analysis that owns them so
// identical uploads are analyzed once.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// Index records which analysis owns a transcript digest.
type Index interface {
	// Claim atomically assigns digest to id unless another analysis already
	// owns it. It returns the owning id and whether the digest was seen.
	Claim(ctx context.Context, digest, id string) (owner string, seen bool)

	// Release forgets digest so the next upload is analyzed again. Used when
	// an accepted analysis could not be queued.
	Release(ctx context.Context, digest string)

	Size() int64
}

// Digest returns the hex SHA-256 of a transcript.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// node represents a single entry in the linked list
type node struct {
	digest string
	owner  string
	next   *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	n.digest = ""
	n.owner = ""
	n.next = nil
}

// inMemoryIndex keeps digests in a map plus a newest-first linked list.
// Bounded mode (maxSize > 0) evicts the oldest claim when full; unbounded
// mode keeps only the map.
type inMemoryIndex struct {
	mu       sync.Mutex
	seen     map[string]*node
	owners   map[string]string // unbounded mode only
	head     *node             // most recently claimed
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryIndex creates a new in-memory index with configuration options.
func NewInMemoryIndex(opts ...Option) Index {
	d := &inMemoryIndex{
		maxSize: 10000,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*node)
	d.owners = make(map[string]string)

	if d.maxSize > 0 {
		d.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return d
}

// Claim implements Index.
func (d *inMemoryIndex) Claim(ctx context.Context, digest, id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxSize <= 0 {
		if owner, ok := d.owners[digest]; ok {
			return owner, true
		}
		d.owners[digest] = id
		d.size.Add(1)
		return id, false
	}

	if n, ok := d.seen[digest]; ok {
		return n.owner, true
	}
	if len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	n := d.nodePool.Get().(*node)
	n.digest = digest
	n.owner = id
	n.next = d.head
	d.head = n
	d.seen[digest] = n
	d.size.Add(1)
	return id, false
}

// Release implements Index.
func (d *inMemoryIndex) Release(ctx context.Context, digest string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxSize <= 0 {
		if _, ok := d.owners[digest]; ok {
			delete(d.owners, digest)
			d.size.Add(-1)
		}
		return
	}

	n, ok := d.seen[digest]
	if !ok {
		return
	}
	delete(d.seen, digest)

	if d.head == n {
		d.head = n.next
	} else {
		cur := d.head
		for cur != nil && cur.next != n {
			cur = cur.next
		}
		if cur != nil {
			cur.next = n.next
		}
	}

	n.reset()
	d.nodePool.Put(n)
	d.size.Add(-1)
}

// evictOldest removes the tail of the list. Must be called with d.mu held.
func (d *inMemoryIndex) evictOldest() {
	if d.head == nil {
		return
	}

	var prev *node
	cur := d.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}

	if prev == nil {
		d.head = nil
	} else {
		prev.next = nil
	}
	delete(d.seen, cur.digest)
	cur.reset()
	d.nodePool.Put(cur)
	d.size.Add(-1)
}

// Size returns the current number of entries in the index.
func (d *inMemoryIndex) Size() int64 {
	return d.size.Load()
}
