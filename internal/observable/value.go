// Package observable provides a value holder that notifies subscribers on change.
package observable

import "sync"

// Value holds a current value of type T and notifies subscribers whenever
// it is replaced. A Value is safe for concurrent use.
//
// Subscribers are called outside the internal lock, in subscription order,
// and see writes in the order they were stored: once every writer has
// returned, the last value a subscriber received equals Get. Concurrent
// writers take turns delivering; the writer that finds delivery idle
// drains every queued write, including the ones made by other goroutines
// meanwhile. A subscriber may read the value or set it again; a nested
// write is delivered after the current callback returns.
//
// When T is a slice or map the value handed out is shared; callers that
// keep it must not modify it.
type Value[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]func(T)
	order  []int
	nextID int
	closed bool

	pending    []delivery[T]
	delivering bool
}

// delivery is one stored write waiting to reach its subscribers.
type delivery[T any] struct {
	subs  []func(T)
	value T
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set replaces the current value and notifies subscribers.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.enqueue(v.snapshot(), value)
}

// Update replaces the current value with fn(current) atomically and
// notifies subscribers. fn runs under the lock and must not call back into v.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.value = fn(v.value)
	v.enqueue(v.snapshot(), v.value)
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription; calling it more than
// once is harmless. Subscribing to a closed Value only delivers the
// current value. If another goroutine is delivering at that moment, the
// current value is queued behind its writes instead of being delivered
// before Subscribe returns.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	value := v.value
	if v.closed {
		v.mu.Unlock()
		fn(value)
		return func() {}
	}
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.order = append(v.order, id)
	v.enqueue([]func(T){fn}, value)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

// Close drops every subscriber. The value stays readable and settable
// but no further notifications are delivered.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.subs = make(map[int]func(T))
	v.order = nil
	v.pending = nil
}

// snapshot returns the live subscribers in subscription order and compacts
// the order slice. Callers must hold v.mu.
func (v *Value[T]) snapshot() []func(T) {
	if len(v.subs) == 0 {
		v.order = v.order[:0]
		return nil
	}
	subs := make([]func(T), 0, len(v.subs))
	live := v.order[:0]
	for _, id := range v.order {
		if fn, ok := v.subs[id]; ok {
			subs = append(subs, fn)
			live = append(live, id)
		}
	}
	v.order = live
	return subs
}

// enqueue appends a write to the delivery queue and, unless another
// goroutine is already delivering, drains the queue. Callers must hold
// v.mu; enqueue releases it.
func (v *Value[T]) enqueue(subs []func(T), value T) {
	if len(subs) > 0 {
		v.pending = append(v.pending, delivery[T]{subs: subs, value: value})
	}
	if v.delivering {
		v.mu.Unlock()
		return
	}

	v.delivering = true
	defer func() {
		// A panicking subscriber must not leave delivery stuck.
		if r := recover(); r != nil {
			v.mu.Lock()
			v.pending = nil
			v.delivering = false
			v.mu.Unlock()
			panic(r)
		}
	}()
	for len(v.pending) > 0 {
		d := v.pending[0]
		v.pending[0] = delivery[T]{}
		v.pending = v.pending[1:]
		v.mu.Unlock()

		for _, fn := range d.subs {
			fn(d.value)
		}

		v.mu.Lock()
	}
	v.pending = nil
	v.delivering = false
	v.mu.Unlock()
}
