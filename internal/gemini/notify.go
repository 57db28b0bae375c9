package gemini

import "sync"

// AuthFailureFunc receives the user-facing message of an authentication or
// configuration failure.
type AuthFailureFunc func(message string)

// AuthNotifier fans auth/config failures out to registered observers.
// Observers register for the lifetime of a view and must deregister when
// torn down; registration returns the handle used to deregister.
type AuthNotifier struct {
	mu   sync.Mutex
	subs map[int]AuthFailureFunc
	next int
}

// NewAuthNotifier creates an empty notifier.
func NewAuthNotifier() *AuthNotifier {
	return &AuthNotifier{subs: make(map[int]AuthFailureFunc)}
}

// Register adds an observer and returns its handle.
func (n *AuthNotifier) Register(fn AuthFailureFunc) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return id
}

// Deregister removes an observer. Unknown handles are ignored.
func (n *AuthNotifier) Deregister(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// Notify delivers a failure message to all current observers. Observers are
// invoked synchronously outside the lock.
func (n *AuthNotifier) Notify(message string) {
	n.mu.Lock()
	fns := make([]AuthFailureFunc, 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(message)
	}
}
