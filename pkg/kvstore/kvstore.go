// Package kvstore defines the storage contract the database is built on
// and the three backends that satisfy it: an in-memory store, an embedded
// SQLite file, and a Cassandra-backed cluster.
package kvstore

// Contents is the database's root pointer: the next entity id to
// allocate, the ident map snapshot, and the current root reference of
// each of the three standing indexes. A backend stores exactly one
// Contents value, reachable atomically through GetContents/SetContents.
type Contents struct {
	NextID   uint64
	Idents   map[string]uint64
	EAVRoot  string
	AEVRoot  string
	AVERoot  string
}

// Store is the capability set every backend must provide. Add and Get
// move opaque, content-addressed blobs in and out; GetContents and
// SetContents move the single root pointer that ties a generation of
// blobs together into one consistent database.
type Store interface {
	// Add stores blob and returns a key that Get can later use to
	// retrieve it. Adding the same bytes twice is safe and idempotent:
	// implementations key blobs by content, so a repeat Add is a no-op
	// that returns the same key.
	Add(blob []byte) (string, error)

	// Get returns the blob previously stored under key, or an error
	// satisfying errors.Is(err, errs.ErrNotFound) if no such key exists.
	Get(key string) ([]byte, error)

	// GetContents returns the database's current root pointer. A store
	// that has never had SetContents called returns the zero Contents.
	GetContents() (Contents, error)

	// SetContents atomically replaces the database's root pointer.
	// Concurrent readers observe either the old or the new Contents,
	// never a partial mix of the two.
	SetContents(Contents) error
}

func cloneContents(c Contents) Contents {
	idents := make(map[string]uint64, len(c.Idents))
	for k, v := range c.Idents {
		idents[k] = v
	}
	c.Idents = idents
	return c
}
