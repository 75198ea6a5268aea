package agent

import "sync/atomic"

// Trigger is a one-shot request flag. Fire sets it and wakes the waiter;
// Take clears it. Repeated fires before a Take coalesce.
type Trigger struct {
	pending atomic.Bool
	wake    chan struct{}
}

// NewTrigger creates a cleared trigger.
func NewTrigger() *Trigger {
	return &Trigger{wake: make(chan struct{}, 1)}
}

// Fire requests a run. It reports false when one is already pending.
func (t *Trigger) Fire() bool {
	if !t.pending.CompareAndSwap(false, true) {
		return false
	}
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return true
}

// Take consumes a pending request.
func (t *Trigger) Take() bool {
	return t.pending.CompareAndSwap(true, false)
}

// Pending reports whether a request is waiting.
func (t *Trigger) Pending() bool {
	return t.pending.Load()
}

// C is signalled after Fire.
func (t *Trigger) C() <-chan struct{} {
	return t.wake
}
