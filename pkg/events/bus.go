// Package events is a small in-process notification bus. Events carry no
// payload: subscribers re-read whatever state they care about.
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Event names broadcast after a successful write.
const (
	CollectionsUpdated = "collectionsUpdated"
	StudentsUpdated    = "studentsUpdated"
	FeeTypesUpdated    = "feeTypesUpdated"
	DiscountsUpdated   = "discountsUpdated"
	PaymentsUpdated    = "paymentsUpdated"
	SchoolInfoUpdated  = "schoolInfoUpdated"
)

// Handler reacts to a named event.
type Handler func(name string)

// Publisher is the write side of the bus, injected into repositories.
type Publisher interface {
	Publish(name string)
}

// Bus dispatches events synchronously to subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
	all    []subscription
	log    *zap.Logger
}

type subscription struct {
	id int
	fn Handler
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{subs: make(map[string][]subscription), log: log}
}

// Subscribe registers fn for name and returns a function that removes it.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	return func() { b.remove(name, id) }
}

// SubscribeAll registers fn for every event.
func (b *Bus) SubscribeAll(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: fn})
	return func() { b.remove("", id) }
}

func (b *Bus) remove(name string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.all
	if name != "" {
		list = b.subs[name]
	}
	out := list[:0:0]
	for _, s := range list {
		if s.id != id {
			out = append(out, s)
		}
	}
	if name == "" {
		b.all = out
	} else {
		b.subs[name] = out
	}
}

// Publish calls every handler for name. A panicking handler is logged and
// does not stop the others.
func (b *Bus) Publish(name string) {
	b.mu.RLock()
	targets := make([]subscription, 0, len(b.subs[name])+len(b.all))
	targets = append(targets, b.subs[name]...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	b.log.Debug("event published", zap.String("event", name), zap.Int("subscribers", len(targets)))
	for _, s := range targets {
		b.dispatch(name, s.fn)
	}
}

func (b *Bus) dispatch(name string, fn Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", zap.String("event", name), zap.Any("panic", r))
		}
	}()
	fn(name)
}

// Nop is a Publisher that drops every event.
type Nop struct{}

func (Nop) Publish(string) {}
