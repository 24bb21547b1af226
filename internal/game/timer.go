package game

import (
	"sync"
	"time"
)

// RoundTimer is the single countdown a room may have running. Starting a
// new countdown always invalidates the previous one; tick and expiry
// callbacks carry the countdown's epoch so the owner can discard fires
// that lost the race against a phase change.
type RoundTimer struct {
	mu    sync.Mutex
	epoch uint64
	stop  chan struct{}
}

// NewRoundTimer creates an idle timer
func NewRoundTimer() *RoundTimer {
	return &RoundTimer{}
}

// Start cancels any running countdown and begins a new one of the given
// duration in seconds. onTick fires once per second with the seconds
// remaining; onExpire fires exactly once when the countdown reaches
// zero. Returns the new countdown's epoch.
func (t *RoundTimer) Start(seconds int, onTick func(epoch uint64, remaining int), onExpire func(epoch uint64)) uint64 {
	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
	}
	t.epoch++
	epoch := t.epoch
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(epoch, seconds, stop, onTick, onExpire)

	return epoch
}

// Cancel stops any running countdown and bumps the epoch so late fires
// from the cancelled goroutine become no-ops even if already in flight.
func (t *RoundTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.epoch++
}

// Epoch returns the current epoch. A callback whose epoch no longer
// matches belongs to a cancelled countdown.
func (t *RoundTimer) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

func (t *RoundTimer) run(epoch uint64, seconds int, stop chan struct{}, onTick func(uint64, int), onExpire func(uint64)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if remaining <= 0 {
				onExpire(epoch)
				return
			}
			onTick(epoch, remaining)
		}
	}
}
