package model

import (
	"fmt"
	"maps"
	"slices"
)

var constructors = map[string]func() Entity{
	ClassState:   func() Entity { return &State{} },
	ClassCity:    func() Entity { return &City{} },
	ClassUser:    func() Entity { return &User{} },
	ClassPlace:   func() Entity { return &Place{} },
	ClassReview:  func() Entity { return &Review{} },
	ClassAmenity: func() Entity { return &Amenity{} },
}

// Classes returns the names of every entity class, sorted.
func Classes() []string {
	return slices.Sorted(maps.Keys(constructors))
}

// IsClass reports whether name is a known entity class.
func IsClass(name string) bool {
	_, ok := constructors[name]
	return ok
}

// NewByClass returns an empty entity of the named class.
func NewByClass(class string) (Entity, error) {
	newEntity, ok := constructors[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	return newEntity(), nil
}

// FromDict rebuilds an entity from a dictionary produced by ToDict,
// dispatching on its ClassKey.
func FromDict(d map[string]any) (Entity, error) {
	class, err := stringField(d, ClassKey)
	if err != nil {
		return nil, err
	}
	if class == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrUnknownClass, ClassKey)
	}
	return FromDictAs(class, d)
}

// FromDictAs rebuilds an entity of the given class. The ClassKey entry is
// ignored when it names the same class and rejected otherwise. Keys the
// class does not define are ignored.
func FromDictAs(class string, d map[string]any) (Entity, error) {
	e, err := NewByClass(class)
	if err != nil {
		return nil, err
	}

	if marker, ok := d[ClassKey]; ok && marker != class {
		return nil, fmt.Errorf("%w: %v does not match %s", ErrUnknownClass, marker, class)
	}

	if err := e.decode(d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", class, err)
	}
	return e, nil
}
