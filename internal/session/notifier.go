package session

import "sync"

// notifier fans change signals out to subscribers. Each subscriber channel
// has room for one pending signal; extra signals coalesce, so a slow
// reader never blocks a writer.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]chan struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan struct{})}
}

func (n *notifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if sub, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (n *notifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
