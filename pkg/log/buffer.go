package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Buffer decouples callers from transporter latency. Entries are queued on
// a bounded channel and written by a single worker; on overflow the oldest
// queued entry is discarded.
type Buffer struct {
	queue    chan Entry
	sinks    []Transporter
	dropped  atomic.Int64
	closed   atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	fallback io.Writer
}

// NewBuffer starts a worker that fans entries out to sinks.
func NewBuffer(capacity int, sinks ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		queue:    make(chan Entry, capacity),
		sinks:    sinks,
		stop:     make(chan struct{}),
		fallback: os.Stderr,
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Send enqueues entry without blocking. It is a no-op after Close.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}
	if b.offer(entry) {
		return
	}
	// Full: make room by evicting the oldest entry, then retry once.
	select {
	case <-b.queue:
		b.dropped.Add(1)
	default:
	}
	if !b.offer(entry) {
		b.dropped.Add(1)
	}
}

func (b *Buffer) offer(entry Entry) bool {
	select {
	case b.queue <- entry:
		return true
	default:
		return false
	}
}

// DroppedCount is the number of entries lost to overflow.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close stops the worker and drains whatever is still queued. Repeated
// calls are no-ops.
func (b *Buffer) Close() {
	b.stopOnce.Do(func() {
		b.closed.Store(true)
		close(b.stop)
		b.wg.Wait()
		for {
			select {
			case entry := <-b.queue:
				b.write(entry)
			default:
				return
			}
		}
	})
}

func (b *Buffer) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stop:
			return
		case entry := <-b.queue:
			b.write(entry)
		}
	}
}

// write hands entry to every sink. Sink failures go to the fallback writer
// so a broken transporter never takes the process down.
func (b *Buffer) write(entry Entry) {
	for _, sink := range b.sinks {
		if err := sink.Write(entry); err != nil {
			fmt.Fprintf(b.fallback, "log: %s transporter: %v\n", sink.Name(), err)
		}
	}
}
