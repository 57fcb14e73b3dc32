package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/inkdeck/internal/adapters/watcher"
)

func TestDebouncerCoalescesEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var calls [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		})

		// A burst of saves for the same document fires once.
		d.Add("/deck/talk.svg")
		d.Add("/deck/talk.svg")
		d.Add("/deck/talk.svg")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, calls, 1)
		assert.Equal(t, []string{"/deck/talk.svg"}, calls[0])
	})
}

func TestDebouncerRestartsWindowOnAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var fired int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			fired++
			mu.Unlock()
		})

		d.Add("/deck/talk.svg")
		time.Sleep(60 * time.Millisecond)
		d.Add("/deck/talk.svg")
		time.Sleep(60 * time.Millisecond)

		// The window restarted, so nothing fired yet.
		mu.Lock()
		assert.Zero(t, fired)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, fired)
	})
}

func TestDebouncerFlush(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string

	d := watcher.NewDebouncer(time.Hour, func(paths []string) {
		mu.Lock()
		calls = append(calls, paths)
		mu.Unlock()
	})

	d.Add("/deck/talk.svg")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, calls, 1)
}

func TestDebouncerFlushEmpty(t *testing.T) {
	d := watcher.NewDebouncer(time.Hour, func([]string) {
		t.Fatal("callback must not fire without pending paths")
	})
	d.Flush()
}
