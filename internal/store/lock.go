package store

import "sync"

// pathLocks serializes all record operations per resolved storage
// path. Without this, two concurrent load-mutate-save cycles against
// the same path would both read the prior state and the last writer
// would silently discard the other's change.
var pathLocks sync.Map // resolved path -> *sync.Mutex

func lockForPath(path string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
