// Package host describes the describe/it style test runner scenarios are
// registered into, and provides adapters for it.
package host

import (
	"context"
	"sync"
)

// FailHandler receives a test failure. Returning the error keeps the test
// failed; returning nil swallows it.
type FailHandler func(err error) error

// Subscription is a registered FailHandler
type Subscription interface {
	Unsubscribe()
}

// TestCase is the handle a running test body gets from the host
type TestCase interface {
	Name() string
	// Skip marks the test skipped. Hosts may stop the calling goroutine.
	Skip(reason string)
	// OnFail subscribes to failures of this test case only
	OnFail(h FailHandler) Subscription
}

// Body is a registered test
type Body func(ctx context.Context, tc TestCase) error

// Host is the runner that owns the suite lifecycle. Registration happens up
// front; the host decides when bodies execute, one at a time, in
// registration order.
type Host interface {
	Before(fn func(ctx context.Context) error)
	BeforeEach(fn func(tc TestCase))
	It(name string, body Body)
	After(fn func(ctx context.Context) error)
}

// Failures is the fail channel of one test case
type Failures struct {
	mu       sync.Mutex
	handlers []*subscription
	closed   bool
}

type subscription struct {
	once   sync.Once
	owner  *Failures
	handle FailHandler
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.owner.remove(s) })
}

// Subscribe adds h. Subscribing to a closed channel returns an inert subscription.
func (f *Failures) Subscribe(h FailHandler) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &subscription{owner: f, handle: h}
	if !f.closed {
		f.handlers = append(f.handlers, sub)
	}
	return sub
}

func (f *Failures) remove(s *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, h := range f.handlers {
		if h == s {
			f.handlers = append(f.handlers[:i], f.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch passes err through the handlers in subscription order and returns
// whatever is left of it.
func (f *Failures) Dispatch(err error) error {
	f.mu.Lock()
	handlers := make([]*subscription, len(f.handlers))
	copy(handlers, f.handlers)
	f.mu.Unlock()

	for _, h := range handlers {
		if err == nil {
			return nil
		}
		err = h.handle(err)
	}
	return err
}

// Close drops every remaining subscription. Hosts call it when a test ends so
// that no handler outlives its test.
func (f *Failures) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers = nil
	f.closed = true
}

// Len reports the number of live subscriptions
func (f *Failures) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type registration struct {
	name string
	body Body
}

// registry collects what a suite registers
type registry struct {
	before     []func(ctx context.Context) error
	beforeEach []func(tc TestCase)
	tests      []registration
	after      []func(ctx context.Context) error
}

func (r *registry) Before(fn func(ctx context.Context) error) { r.before = append(r.before, fn) }
func (r *registry) BeforeEach(fn func(tc TestCase))           { r.beforeEach = append(r.beforeEach, fn) }
func (r *registry) It(name string, body Body) {
	r.tests = append(r.tests, registration{name: name, body: body})
}
func (r *registry) After(fn func(ctx context.Context) error) { r.after = append(r.after, fn) }
