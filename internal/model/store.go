package model

import "context"

// Store is the part of a storage engine entities delegate to.
type Store interface {
	New(obj Entity)
	Save(ctx context.Context) error
	Delete(obj Entity)
}

// Save refreshes the UpdatedAt of obj, registers it with s and persists
// everything s tracks.
func Save(ctx context.Context, s Store, obj Entity) error {
	Touch(obj)
	s.New(obj)
	return s.Save(ctx)
}

// Delete removes obj from s and persists the removal. A nil obj is a no-op.
// Callers holding obj keep a usable value.
func Delete(ctx context.Context, s Store, obj Entity) error {
	if IsNil(obj) {
		return nil
	}
	s.Delete(obj)
	return s.Save(ctx)
}
