// ABOUTME: Observer hooks for session metrics
// ABOUTME: Implemented by internal/metrics; defaults to a no-op
package streamplay

// Observer is notified of session activity. Calls may arrive from the session
// goroutine, caller goroutines and device goroutines.
type Observer interface {
	FragmentReceived(bytes int)
	UnitScheduled(duration, lead float64)
	UnitEnded()
	UnitDropped()
	DecodeFailed()
}

type nopObserver struct{}

func (nopObserver) FragmentReceived(int)           {}
func (nopObserver) UnitScheduled(float64, float64) {}
func (nopObserver) UnitEnded()                     {}
func (nopObserver) UnitDropped()                   {}
func (nopObserver) DecodeFailed()                  {}
