// Package storage provides a thread-safe bounded history buffer.
package storage

import "sync"

// RingBuffer is a thread-safe circular buffer. When full, Add overwrites
// the oldest element.
type RingBuffer[T any] struct {
	mu       sync.RWMutex
	data     []T
	head     int // Index where the next element will be written
	count    int
	capacity int
}

// NewRingBuffer creates a RingBuffer holding at most capacity elements.
// A capacity below one is raised to one.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends v, overwriting the oldest element when the buffer is full.
func (rb *RingBuffer[T]) Add(v T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.head] = v
	rb.head = (rb.head + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}
}

// last returns the newest n elements in insertion order. Callers hold mu.
func (rb *RingBuffer[T]) last(n int) []T {
	if n <= 0 || rb.count == 0 {
		return nil
	}
	if n > rb.count {
		n = rb.count
	}

	result := make([]T, n)
	start := (rb.head - n + rb.capacity) % rb.capacity
	for i := 0; i < n; i++ {
		result[i] = rb.data[(start+i)%rb.capacity]
	}
	return result
}

// GetAll returns every stored element in insertion order.
func (rb *RingBuffer[T]) GetAll() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.last(rb.count)
}

// Resize changes the capacity, keeping the newest elements.
func (rb *RingBuffer[T]) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	kept := rb.last(rb.count)
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	rb.data = make([]T, capacity)
	copy(rb.data, kept)
	rb.capacity = capacity
	rb.count = len(kept)
	rb.head = rb.count % capacity
}

// Clear removes all elements.
func (rb *RingBuffer[T]) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	clear(rb.data)
	rb.head = 0
	rb.count = 0
}

// Size returns the number of elements currently stored.
func (rb *RingBuffer[T]) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Capacity returns the maximum number of elements.
func (rb *RingBuffer[T]) Capacity() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.capacity
}

// IsFull returns true if the buffer has reached its capacity.
func (rb *RingBuffer[T]) IsFull() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count == rb.capacity
}

// IsEmpty returns true if the buffer has no elements.
func (rb *RingBuffer[T]) IsEmpty() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count == 0
}
