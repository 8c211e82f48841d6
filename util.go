package main

import (
	"sync"
)

type Box[T any] struct {
	mu sync.Mutex
	v  T
}

func (box *Box[T]) Get() T {
	box.mu.Lock()
	defer box.mu.Unlock()
	return box.v
}

func (box *Box[T]) Set(v T) {
	box.mu.Lock()
	defer box.mu.Unlock()
	box.v = v
}

// Swap stores v and returns the previous value.
func (box *Box[T]) Swap(v T) T {
	box.mu.Lock()
	defer box.mu.Unlock()
	old := box.v
	box.v = v
	return old
}

// Update applies f to the held value under the lock.
func (box *Box[T]) Update(f func(T) T) {
	box.mu.Lock()
	defer box.mu.Unlock()
	box.v = f(box.v)
}

func clamp(value float64, lo float64, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
