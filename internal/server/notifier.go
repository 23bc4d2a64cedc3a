package server

import "sync"

// notifier fans snapshot swaps out to every subscribed event stream.
// Listeners receive the id of the newest snapshot; a slow listener only
// ever sees the latest one.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan string]struct{}),
	}
}

// subscribe returns a channel that receives snapshot ids. The caller must
// unsubscribe when done.
func (n *notifier) subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch chan string) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// broadcast never blocks. A full channel has its pending id replaced.
func (n *notifier) broadcast(id string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- id:
		default:
		}
	}
}

