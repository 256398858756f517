package notify

import (
	"log"
	"sync"
)

type task struct {
	label string
	run   func() error
}

// Dispatcher is the supervised fire-and-forget path: callers enqueue a
// send and move on, a single worker executes it and logs failures.
// Nothing here runs on a bare goroutine where an error could vanish.
type Dispatcher struct {
	queue chan task
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{queue: make(chan task, buffer)}
}

// Start launches the worker. Call once at startup.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for t := range d.queue {
			if err := t.run(); err != nil {
				log.Printf("[NOTIFY] [ERROR] background %s failed: %v", t.label, err)
			}
		}
	}()
}

// Enqueue hands a send to the worker. If the queue is full the send is
// dropped with a logged error rather than blocking a request handler.
func (d *Dispatcher) Enqueue(label string, run func() error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("[NOTIFY] [ERROR] dispatcher closed, dropping %s", label)
		return
	}
	select {
	case d.queue <- task{label: label, run: run}:
	default:
		log.Printf("[NOTIFY] [ERROR] queue full, dropping %s", label)
	}
}

// Close stops accepting work and waits for queued sends to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
