package log

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// gateTransporter blocks its first Write until release is closed.
type gateTransporter struct {
	captureTransporter
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gateTransporter {
	return &gateTransporter{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateTransporter) Write(e Entry) error {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return g.captureTransporter.Write(e)
}

type failingTransporter struct{}

func (failingTransporter) Name() string      { return "broken" }
func (failingTransporter) Write(Entry) error { return errors.New("disk full") }
func (failingTransporter) Close() error      { return nil }

func messages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestBuffer_DeliversToEverySinkInOrder(t *testing.T) {
	a, b := &captureTransporter{}, &captureTransporter{}
	buf := NewBuffer(16, a, b)

	for i := 0; i < 5; i++ {
		buf.Send(*NewEntry(Info, fmt.Sprintf("m%d", i)))
	}
	buf.Close()

	want := []string{"m0", "m1", "m2", "m3", "m4"}
	for _, sink := range []*captureTransporter{a, b} {
		if got := messages(sink.Entries()); fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("delivered %v, want %v", got, want)
		}
	}
}

func TestBuffer_Overflow_EvictsOldestQueued(t *testing.T) {
	gate := newGate()
	buf := NewBuffer(2, gate)

	buf.Send(*NewEntry(Info, "e0"))
	<-gate.started // worker is now parked inside Write(e0)

	for _, m := range []string{"e1", "e2", "e3", "e4"} {
		buf.Send(*NewEntry(Info, m))
	}
	close(gate.release)
	buf.Close()

	if got := messages(gate.Entries()); fmt.Sprint(got) != "[e0 e3 e4]" {
		t.Errorf("delivered %v, want [e0 e3 e4]", got)
	}
	if buf.DroppedCount() != 2 {
		t.Errorf("DroppedCount() = %d, want 2", buf.DroppedCount())
	}
}

func TestBuffer_SinkError_ReportedToFallback(t *testing.T) {
	var stderr bytes.Buffer
	ok := &captureTransporter{}
	buf := NewBuffer(4, failingTransporter{}, ok)
	buf.fallback = &stderr

	buf.Send(*NewEntry(Error, "boom"))
	buf.Close()

	if len(ok.Entries()) != 1 {
		t.Errorf("healthy sink got %d entries, want 1", len(ok.Entries()))
	}
	if got := stderr.String(); got != "log: broken transporter: disk full\n" {
		t.Errorf("fallback output = %q", got)
	}
}

func TestBuffer_Close_IdempotentAndIgnoresLateSends(t *testing.T) {
	sink := &captureTransporter{}
	buf := NewBuffer(4, sink)

	buf.Close()
	buf.Close()
	buf.Send(*NewEntry(Info, "late"))

	if len(sink.Entries()) != 0 {
		t.Errorf("entry sent after Close was delivered")
	}
}

func TestBuffer_ConcurrentSenders_AccountForEveryEntry(t *testing.T) {
	sink := &captureTransporter{}
	buf := NewBuffer(8, sink)

	const senders, each = 8, 50
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				buf.Send(*NewEntry(Debug, "tick"))
			}
		}()
	}
	wg.Wait()
	buf.Close()

	total := int64(len(sink.Entries())) + buf.DroppedCount()
	if total != senders*each {
		t.Errorf("delivered+dropped = %d, want %d", total, senders*each)
	}
}
