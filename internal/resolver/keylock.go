package resolver

import "sync"

// keyLock provides one mutex per key. Mutexes are removed when no go-routine
// holds or waits for them anymore.
type keyLock struct {
	lock  sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: map[string]*refMutex{}}
}

// Lock blocks until the mutex for key is acquired and returns the function to
// release it.
func (k *keyLock) Lock(key string) (unlock func()) {
	k.lock.Lock()
	m, exists := k.locks[key]
	if !exists {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.lock.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.lock.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.lock.Unlock()
	}
}

func (k *keyLock) len() int {
	k.lock.Lock()
	defer k.lock.Unlock()

	return len(k.locks)
}
