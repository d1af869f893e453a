// Package sse streams document lifecycle events to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is one frame on the stream. Data is encoded as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// DocumentChange is the payload of every document.* and output.* event.
type DocumentChange struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// Summary is the payload of the throttled documents.changed event.
// Changes counts the document events folded into it.
type Summary struct {
	Changes int `json:"changes"`
}

// SummaryEvent is emitted at most once per throttle interval.
const SummaryEvent = "documents.changed"

// eventNames maps session and output change kinds to stream event names.
var eventNames = map[string]string{
	"created": "document.created",
	"updated": "document.updated",
	"saved":   "document.saved",
	"deleted": "document.deleted",
	"written": "output.written",
	"removed": "output.removed",
}

const (
	clientBuffer = 64
	retryMillis  = 3000
)

// Broker fans events out to connected clients.
//
// The client set, the frame sequence and the summary state belong to the
// loop goroutine. Everything else reaches them through channels.
type Broker struct {
	throttle  time.Duration
	heartbeat time.Duration

	join   chan chan []byte
	leave  chan chan []byte
	events chan Event
	counts chan chan int

	quit   chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewBroker starts a broker. throttle is the minimum gap between two
// documents.changed events; zero or less means two seconds.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	b := &Broker{
		throttle:  throttle,
		heartbeat: 25 * time.Second,
		join:      make(chan chan []byte),
		leave:     make(chan chan []byte),
		events:    make(chan Event, 256),
		counts:    make(chan chan int),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go b.loop()
	return b
}

// frame encodes one event in wire format with its sequence number as the id.
func frame(seq uint64, ev Event) ([]byte, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, ev.Type, data)), nil
}

func (b *Broker) loop() {
	defer close(b.done)

	clients := make(map[chan []byte]struct{})
	var (
		seq         uint64
		lastSummary time.Time
		pending     int
	)

	send := func(ev Event) {
		seq++
		raw, err := frame(seq, ev)
		if err != nil {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// slow client, drop
			}
		}
	}

	for {
		select {
		case <-b.quit:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.join:
			clients[ch] = struct{}{}

		case ch := <-b.leave:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.events:
			send(ev)
			if _, ok := ev.Data.(DocumentChange); !ok {
				continue
			}
			pending++
			if now := time.Now(); now.Sub(lastSummary) >= b.throttle {
				lastSummary = now
				send(Event{Type: SummaryEvent, Data: Summary{Changes: pending}})
				pending = 0
			}

		case resp := <-b.counts:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel. Safe to call twice.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a client. The channel is closed when the client
// unsubscribes or the broker shuts down.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.join <- ch:
	case <-b.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.counts <- resp:
	case <-b.done:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Publish queues an event for every client.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

// PublishDocumentEvent publishes a change to document id. Unknown kinds are
// dropped. Each change may also produce a documents.changed summary.
func (b *Broker) PublishDocumentEvent(kind, id string) {
	name, ok := eventNames[kind]
	if !ok {
		return
	}
	b.Publish(Event{Type: name, Data: DocumentChange{ID: id, At: time.Now().UTC()}})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.heartbeat)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
