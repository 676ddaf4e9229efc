// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the small
generic transformations the catalogue needs (Map, Filter, IndexBy).
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements for which predicate is true, in order.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// IndexBy builds a lookup table keyed by key(element). On key collisions the
// later element wins.
func IndexBy[T any, K comparable](input []T, key func(T) K) map[K]T {
	index := make(map[K]T, len(input))
	for _, v := range input {
		index[key(v)] = v
	}
	return index
}
