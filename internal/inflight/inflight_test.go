package inflight_test

import (
	"sync"
	"testing"

	"github.com/Fandor1in/padel-miniapp/internal/inflight"
	"github.com/stretchr/testify/assert"
)

func TestAcquireRelease(t *testing.T) {
	reg := inflight.New()

	assert.True(t, reg.Acquire("match-1"))
	assert.False(t, reg.Acquire("match-1"))
	assert.True(t, reg.Acquire("match-2"), "other keys are unaffected")

	reg.Release("match-1")
	assert.True(t, reg.Acquire("match-1"))
}

func TestReleaseUnheldKey(t *testing.T) {
	reg := inflight.New()
	reg.Release("never-acquired")
	assert.True(t, reg.Acquire("never-acquired"))
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	reg := inflight.New()

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reg.Acquire("match-1") {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
