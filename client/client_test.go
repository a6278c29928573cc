package client

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// fakeTransport scripts replies per subject and records traffic so
// tests can assert exactly which requests a traversal issued.
type fakeTransport struct {
	mu sync.Mutex

	// replies maps subject to scripted reply payloads
	replies map[string][]byte

	// requests records request subjects in issue order
	requests []string

	// published records fire-and-forget publishes
	published []string

	// handlers captures subscription callbacks by subject
	handlers map[string]nats.MsgHandler

	// lastPayload keeps the most recent request payload per subject
	lastPayload map[string][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		replies:     make(map[string][]byte),
		handlers:    make(map[string]nats.MsgHandler),
		lastPayload: make(map[string][]byte),
	}
}

func (f *fakeTransport) reply(subject string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[subject] = data
}

func (f *fakeTransport) Request(subj string, data []byte, _ time.Duration) (*nats.Msg, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, subj)
	f.lastPayload[subj] = data
	return &nats.Msg{Subject: subj, Data: f.replies[subj]}, nil
}

func (f *fakeTransport) Publish(subj string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, subj)
	return nil
}

func (f *fakeTransport) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[subj] = cb
	return &nats.Subscription{}, nil
}

// deliver pushes a raw message to the captured handler for subject
func (f *fakeTransport) deliver(subject string, data []byte) {
	f.mu.Lock()
	cb := f.handlers[subject]
	f.mu.Unlock()
	if cb != nil {
		cb(&nats.Msg{Subject: subject, Data: data})
	}
}

// requestCount returns how many requests hit subject
func (f *fakeTransport) requestCount(subject string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.requests {
		if s == subject {
			n++
		}
	}
	return n
}

func (f *fakeTransport) totalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeTransport) payload(subject string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPayload[subject]
}
