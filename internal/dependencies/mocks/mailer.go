package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/onewordstory/internal/services/mailer"
)

// ErrMockDelivery is returned for recipients marked with FailDeliveryTo
var ErrMockDelivery = errors.New("mock delivery failure")

// MockSender records outgoing mail instead of delivering it
type MockSender struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]bool
}

// Ensure MockSender implements Sender
var _ mailer.Sender = (*MockSender)(nil)

// NewMockSender creates a MockSender that accepts every message
func NewMockSender() *MockSender {
	return &MockSender{failFor: make(map[string]bool)}
}

// Send records the message, or fails if the recipient was marked as failing
func (s *MockSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failFor[msg.To] {
		return ErrMockDelivery
	}
	s.sent = append(s.sent, msg)
	return nil
}

// FailDeliveryTo makes every later Send to the given address fail
func (s *MockSender) FailDeliveryTo(addresses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range addresses {
		s.failFor[a] = true
	}
}

// Messages returns a copy of all successfully sent messages
func (s *MockSender) Messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

// LastTo returns the most recent message sent to the address
func (s *MockSender) LastTo(address string) (mailer.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].To == address {
			return s.sent[i], true
		}
	}
	return mailer.Message{}, false
}

// Reset clears recorded messages and failure rules
func (s *MockSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.failFor = make(map[string]bool)
}
