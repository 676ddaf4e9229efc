// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query parses list-valued URL query parameters.

Browsers and HTTP clients encode arrays in several ways; the bracketed forms
come from PHP-style serializers such as qs and axios:

	ids=1&ids=2        repeated key
	ids[]=1&ids[]=2    bracket suffix
	ids[0]=1&ids[1]=2  indexed, ordered by index

A single request must stick to one form.
*/
package query

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrMissing is returned when the parameter does not appear at all.
	ErrMissing = errors.New("query: parameter missing")

	// ErrMixedForms is returned when one request combines encodings.
	ErrMixedForms = errors.New("query: parameter uses more than one array encoding")
)

// Int64List collects the values of an array parameter named key, in order.
// Every value must be a base-10 int64; nothing is silently dropped.
func Int64List(values url.Values, key string) ([]int64, error) {
	raw, err := List(values, key)
	if err != nil {
		return nil, err
	}

	result := make([]int64, 0, len(raw))
	for _, value := range raw {
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("query: %s value %q is not an integer", key, value)
		}
		result = append(result, parsed)
	}
	return result, nil
}

// List collects the raw string values of an array parameter named key.
func List(values url.Values, key string) ([]string, error) {
	type indexed struct {
		index int
		value string
	}

	var (
		plain   = values[key]
		bracket = values[key+"[]"]
		ordered []indexed
	)

	prefix := key + "["
	for name, entries := range values {
		if name == key+"[]" || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "]") {
			continue
		}

		index, err := strconv.Atoi(name[len(prefix) : len(name)-1])
		if err != nil || index < 0 {
			return nil, fmt.Errorf("query: malformed parameter name %q", name)
		}
		if len(entries) != 1 {
			return nil, fmt.Errorf("query: index %d of %s given %d times", index, key, len(entries))
		}
		ordered = append(ordered, indexed{index: index, value: entries[0]})
	}

	forms := 0
	for _, present := range []bool{len(plain) > 0, len(bracket) > 0, len(ordered) > 0} {
		if present {
			forms++
		}
	}

	switch {
	case forms == 0:
		return nil, ErrMissing
	case forms > 1:
		return nil, ErrMixedForms
	case len(plain) > 0:
		return slices.Clone(plain), nil
	case len(bracket) > 0:
		return slices.Clone(bracket), nil
	}

	slices.SortFunc(ordered, func(a, b indexed) int { return a.index - b.index })

	result := make([]string, len(ordered))
	for i, entry := range ordered {
		result[i] = entry.value
	}
	return result, nil
}
