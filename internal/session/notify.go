package session

// Notifier signals state changes to a single consumer without blocking the
// producer. Bursts of changes coalesce into one pending signal.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier returns a ready notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify records a change. It never blocks.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C returns the channel that receives change signals.
func (n *Notifier) C() <-chan struct{} {
	return n.ch
}
