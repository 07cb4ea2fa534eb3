package entity

import "fmt"

// Setter writes one attribute onto a *T.
type Setter[T any] func(target *T, value any) error

// Fields maps attribute names to setters for a struct type. It lets a struct
// implement Assignable with a single line:
//
//	var userFields = entity.Fields[User]{
//	    "role": entity.Field(func(u *User, v string) { u.Role = v }),
//	}
//
//	func (u *User) Assign(name string, value any) error {
//	    return userFields.Assign(u, name, value)
//	}
type Fields[T any] map[string]Setter[T]

// Field builds a type-checked Setter. A nil value assigns the zero value of V.
func Field[T, V any](set func(target *T, value V)) Setter[T] {
	return func(target *T, value any) error {
		if value == nil {
			var zero V
			set(target, zero)
			return nil
		}
		v, ok := value.(V)
		if !ok {
			var zero V
			return fmt.Errorf("%w: got %T, want %T", ErrAttributeType, value, zero)
		}
		set(target, v)
		return nil
	}
}

// Assign writes value into target through the setter registered for name.
func (f Fields[T]) Assign(target *T, name string, value any) error {
	if name == "" {
		return ErrEmptyAttribute
	}
	set, ok := f[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	if err := set(target, value); err != nil {
		return fmt.Errorf("attribute %s: %w", name, err)
	}
	return nil
}
