package service

import "sync"

// PeakTracker owns the per-identity running peak of observed marks, the state
// behind the trailing stop. Updates are serialized so overlapping evaluations
// of the same contract cannot lose a higher mark.
type PeakTracker struct {
	mu    sync.Mutex
	peaks map[string]float64
}

func NewPeakTracker() *PeakTracker {
	return &PeakTracker{peaks: make(map[string]float64)}
}

// Update records the observed mark for the identity and returns the current
// peak. A non-nil explicitPrior seeds/overrides the tracked value, used when
// the peak is persisted on the position record rather than held in memory.
// The first observation of an identity is its own peak. Peaks never shrink.
func (t *PeakTracker) Update(identity string, mark float64, explicitPrior *float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	peak, ok := t.peaks[identity]
	if explicitPrior != nil {
		peak = *explicitPrior
		ok = true
	}
	if !ok {
		peak = mark
	}
	if mark > peak {
		peak = mark
	}
	t.peaks[identity] = peak
	return peak
}

// Peek returns the tracked peak without updating it.
func (t *PeakTracker) Peek(identity string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	peak, ok := t.peaks[identity]
	return peak, ok
}

// Evict drops the tracked state for an identity, e.g. when the position is
// deleted from the store.
func (t *PeakTracker) Evict(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peaks, identity)
}
