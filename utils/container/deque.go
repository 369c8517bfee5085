// Package container provides the generic data structures used by the
// simulation entities.
package container

import (
	"fmt"
	"log"
)

// Deque is a double-ended queue backed by a slice. It holds vehicle
// activity plans (popped from the front) and per-line in-service
// vehicle collections (pushed at the front, retired from the back).
type Deque[T any] struct {
	data []T
}

// NewDeque creates a deque holding the given items front to back.
func NewDeque[T any](items ...T) *Deque[T] {
	d := &Deque[T]{}
	d.data = append(d.data, items...)
	return d
}

func (d *Deque[T]) String() string {
	return fmt.Sprintf("Deque{Len:%d}", len(d.data))
}

// Len returns the number of items in the deque.
func (d *Deque[T]) Len() int {
	return len(d.data)
}

// Empty reports whether the deque holds no items.
func (d *Deque[T]) Empty() bool {
	return len(d.data) == 0
}

// PushFront inserts an item at the front.
func (d *Deque[T]) PushFront(v T) {
	d.data = append([]T{v}, d.data...)
}

// PushBack appends an item at the back.
func (d *Deque[T]) PushBack(v T) {
	d.data = append(d.data, v)
}

// PopFront removes and returns the front item.
func (d *Deque[T]) PopFront() T {
	if len(d.data) == 0 {
		log.Panic("pop from empty deque")
	}
	v := d.data[0]
	d.data = d.data[1:]
	return v
}

// PopBack removes and returns the back item.
func (d *Deque[T]) PopBack() T {
	if len(d.data) == 0 {
		log.Panic("pop from empty deque")
	}
	v := d.data[len(d.data)-1]
	d.data = d.data[:len(d.data)-1]
	return v
}

// Front returns the front item without removing it.
func (d *Deque[T]) Front() T {
	if len(d.data) == 0 {
		log.Panic("front of empty deque")
	}
	return d.data[0]
}

// Back returns the back item without removing it.
func (d *Deque[T]) Back() T {
	if len(d.data) == 0 {
		log.Panic("back of empty deque")
	}
	return d.data[len(d.data)-1]
}

// At returns the i-th item from the front.
func (d *Deque[T]) At(i int) T {
	return d.data[i]
}

// Insert places an item at position i, shifting the rest back.
func (d *Deque[T]) Insert(i int, v T) {
	if i < 0 || i > len(d.data) {
		log.Panicf("insert index %d out of range [0,%d]", i, len(d.data))
	}
	d.data = append(d.data, v)
	copy(d.data[i+1:], d.data[i:])
	d.data[i] = v
}

// RemoveAt deletes and returns the item at position i.
func (d *Deque[T]) RemoveAt(i int) T {
	if i < 0 || i >= len(d.data) {
		log.Panicf("remove index %d out of range [0,%d)", i, len(d.data))
	}
	v := d.data[i]
	d.data = append(d.data[:i], d.data[i+1:]...)
	return v
}

// Values returns a copy of the items front to back.
func (d *Deque[T]) Values() []T {
	values := make([]T, len(d.data))
	copy(values, d.data)
	return values
}
