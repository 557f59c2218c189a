package wsclient

import (
	"sync"

	"github.com/systembridge/connector-go/pkg/event"
)

// pending is one in-flight request's completion slot. The channel is
// buffered so fulfillment never blocks the listener; a second write is
// detected by the full buffer and discarded.
type pending struct {
	expect event.Type // expected response type; empty matches any
	ch     chan *Response
}

// fulfill writes the response into the slot. It reports false when the slot
// was already fulfilled; late duplicates are dropped silently.
func (p *pending) fulfill(resp *Response) bool {
	select {
	case p.ch <- resp:
		return true
	default:
		return false
	}
}

// correlator is the pending-request table mapping correlation ids onto
// completion slots. The request goroutine inserts and removes entries; the
// listener goroutine only fulfills them.
type correlator struct {
	mu      sync.Mutex
	entries map[string]*pending
}

func newCorrelator() *correlator {
	return &correlator{entries: make(map[string]*pending)}
}

// add registers a slot for id before the request is written, so a reply
// racing the write still finds its entry. A colliding id overwrites the
// older slot.
func (c *correlator) add(id string, expect event.Type) *pending {
	entry := &pending{
		expect: expect,
		ch:     make(chan *Response, 1),
	}
	c.mu.Lock()
	c.entries[id] = entry
	c.mu.Unlock()
	return entry
}

// remove drops the slot for id. Only the goroutine that inserted an entry
// removes it, on fulfillment, timeout or cancellation.
func (c *correlator) remove(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// match returns the slot registered for id if the frame type passes the
// entry's response-type filter. A frame with a matching id but a different
// type is not consumed.
func (c *correlator) match(id string, frameType event.Type) *pending {
	if id == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return nil
	}
	if entry.expect != "" && entry.expect != frameType {
		return nil
	}
	return entry
}
