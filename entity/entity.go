// Package entity defines how partial updates land on fixture entities.
//
// A partial update is an Attributes map. Entities accept it one attribute at a
// time through Assignable, so every overwrite goes through code the entity
// type owns rather than through reflection. Record is a ready-made dynamic
// entity; Fields builds an Assign method for plain structs.
package entity

import (
	"errors"
	"slices"
)

// Sentinel errors for attribute assignment.
var (
	ErrEmptyAttribute   = errors.New("attribute name is empty")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrAttributeType    = errors.New("attribute type mismatch")
)

// Attributes is a partial update keyed by attribute name.
type Attributes map[string]any

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Assignable is implemented by entities that accept attribute overwrites.
// Assign replaces the current value of name; it never merges nested values.
type Assignable interface {
	Assign(name string, value any) error
}

// Merge overwrites target's attributes with update, one Assign call per key in
// sorted key order. It stops at the first failing assignment; attributes
// assigned before the failure stay in place.
func Merge(target Assignable, update Attributes) error {
	for _, name := range update.Keys() {
		if err := target.Assign(name, update[name]); err != nil {
			return err
		}
	}
	return nil
}
