package editor

import (
	"errors"
	"fmt"
	"slices"
)

// ErrListIndex is returned for list edits outside the list.
var ErrListIndex = errors.New("list index out of range")

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d of %d", ErrListIndex, i, n)
	}
	return nil
}

// InsertAt returns a copy of list with v inserted at i. i may equal len(list).
func InsertAt[T any](list []T, i int, v T) ([]T, error) {
	if i < 0 || i > len(list) {
		return nil, fmt.Errorf("%w: %d of %d", ErrListIndex, i, len(list))
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, v)
	return append(out, list[i:]...), nil
}

// RemoveAt returns a copy of list without element i.
func RemoveAt[T any](list []T, i int) ([]T, error) {
	if err := checkIndex(i, len(list)); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// Swap returns a copy of list with elements i and j exchanged.
func Swap[T any](list []T, i, j int) ([]T, error) {
	if err := checkIndex(i, len(list)); err != nil {
		return nil, err
	}
	if err := checkIndex(j, len(list)); err != nil {
		return nil, err
	}
	out := slices.Clone(list)
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// MoveUp moves element i one place towards the front, raising its priority.
func MoveUp[T any](list []T, i int) ([]T, error) {
	if i == 0 && len(list) > 0 {
		return slices.Clone(list), nil
	}
	return Swap(list, i, i-1)
}

// MoveDown moves element i one place towards the back.
func MoveDown[T any](list []T, i int) ([]T, error) {
	if i == len(list)-1 && len(list) > 0 {
		return slices.Clone(list), nil
	}
	return Swap(list, i, i+1)
}

// CloneAt returns a copy of list with a duplicate of element i inserted
// after it. clone copies the element; nil uses plain assignment.
func CloneAt[T any](list []T, i int, clone func(T) T) ([]T, error) {
	if err := checkIndex(i, len(list)); err != nil {
		return nil, err
	}
	v := list[i]
	if clone != nil {
		v = clone(v)
	}
	return InsertAt(list, i+1, v)
}

// ListEdit builds an Edit for a list change.
func ListEdit[T any](description string, before, after []T) Edit[[]T] {
	return Edit[[]T]{Description: description, Before: before, After: after}
}
