package testutil

import (
	"context"
	"fmt"
	"sync"
)

// SentMessage records one FakeNotifier send.
type SentMessage struct {
	To       string
	Message  string
	Priority string
}

// FakeNotifier is an in-memory services.Notifier for testing.
type FakeNotifier struct {
	mu   sync.Mutex
	sent []SentMessage

	// Err, when set, fails every send.
	Err error
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (f *FakeNotifier) Send(ctx context.Context, to, message, priority string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.sent = append(f.sent, SentMessage{To: to, Message: message, Priority: priority})
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

// Sent returns a copy of all successful sends.
func (f *FakeNotifier) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

// SetErr toggles failure injection between passes.
func (f *FakeNotifier) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}
