package monitor

import "sync"

// Tee fans report lines out to subscribers (MQTT, websocket feeds)
// without ever blocking the control loop: a subscriber whose channel
// is full misses lines instead of stalling ingestion.
type Tee struct {
	lock sync.Mutex
	subs map[int]chan string
	next int
}

// NewTee creates a Tee.
func NewTee() *Tee {
	return &Tee{subs: make(map[int]chan string)}
}

// Subscribe registers a subscriber with the given channel depth and
// returns the channel plus a cancel func. Cancel closes the channel.
func (t *Tee) Subscribe(depth int) (<-chan string, func()) {
	if depth <= 0 {
		depth = 64
	}
	ch := make(chan string, depth)
	t.lock.Lock()
	id := t.next
	t.next++
	t.subs[id] = ch
	t.lock.Unlock()
	return ch, func() {
		t.lock.Lock()
		if _, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(ch)
		}
		t.lock.Unlock()
	}
}

// Publish delivers a line to all subscribers, dropping it for any
// whose channel is full.
func (t *Tee) Publish(line string) {
	t.lock.Lock()
	for _, ch := range t.subs {
		select {
		case ch <- line:
		default:
		}
	}
	t.lock.Unlock()
}
