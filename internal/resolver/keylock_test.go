package resolver

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	kl := newKeyLock()

	var running, maxRunning int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock := kl.Lock("cs")
			defer unlock()

			cur := atomic.AddInt32(&running, 1)
			if cur > atomic.LoadInt32(&maxRunning) {
				atomic.StoreInt32(&maxRunning, cur)
			}
			atomic.AddInt32(&running, -1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
	assert.Equal(t, 0, kl.len(), "mutexes were not released")
}

func TestKeyLockDifferentKeysDoNotBlock(t *testing.T) {
	kl := newKeyLock()

	unlockA := kl.Lock("a")
	unlockB := kl.Lock("b")

	assert.Equal(t, 2, kl.len())

	unlockA()
	unlockB()

	assert.Equal(t, 0, kl.len())
}
