// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package value constructs Go values from streams of JSON text.
//
// A Parser accepts input in chunks of any size and collects each complete
// top-level value as it is finished. Values are represented as:
//
//	JSON          Go
//	object        *Object, or map[string]any if UseMaps is set
//	array         []any
//	string        string
//	number        jfeed.Number
//	true, false   bool
//	null          nil
package value

import "fmt"

// An Object is a collection of key-value members, in input order.
// Duplicate keys are retained; lookups report the last member with a given
// key, matching the behavior of the map representation.
type Object struct {
	Members []Member
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value any
}

// Len reports the number of members in o, including duplicates.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the last member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return &o.Members[i]
		}
	}
	return nil
}

// Get returns the value of the last member of o with the given key, and
// reports whether such a member was found.
func (o *Object) Get(key string) (any, bool) {
	if m := o.Find(key); m != nil {
		return m.Value, true
	}
	return nil, false
}

// Keys returns the keys of the members of o, in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// Path traverses a sequential path through the structure of a value starting
// at v, where path elements are either strings (denoting object keys) or
// integers (denoting offsets into arrays). If the path is valid, the element
// reached is returned. In case of error, the input v is returned along with
// the error.
//
// If a path element is a string, the corresponding value must be an object
// (either representation), and the string resolves an object member with
// that name.
//
// If a path element is an integer, the corresponding value must be an array,
// and the integer resolves to an index in the array. Negative indices count
// backward from the end of the array (-1 is last, -2 second last, etc.).
//
// If a path element is a function, the function is executed and its result
// becomes the next object in the sequence. The function must have a signature
//
//	func(any) (any, error)
//
// If the function fails, the traversal reports its error.
func Path(v any, path ...any) (any, error) {
	cur := v
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			switch c := cur.(type) {
			case *Object:
				next, ok := c.Get(t)
				if !ok {
					return v, fmt.Errorf("key %q not found", t)
				}
				cur = next
			case map[string]any:
				next, ok := c[t]
				if !ok {
					return v, fmt.Errorf("key %q not found", t)
				}
				cur = next
			default:
				return v, fmt.Errorf("cannot traverse %T with %q", cur, elt)
			}
		case int:
			c, ok := cur.([]any)
			if !ok {
				return v, fmt.Errorf("cannot traverse %T with %v", cur, elt)
			}
			i, ok := fixArrayBound(len(c), t)
			if !ok {
				return v, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(c))
			}
			cur = c[i]
		case func(any) (any, error):
			next, err := t(cur)
			if err != nil {
				return v, err
			}
			cur = next
		default:
			return v, fmt.Errorf("invalid path element %T", elt)
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
