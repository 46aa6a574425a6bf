package model

import (
	"context"
	"errors"
)

type StubStore struct {
	NewFunc    func(obj Entity)
	SaveFunc   func(ctx context.Context) error
	DeleteFunc func(obj Entity)
}

var _ Store = &StubStore{}

func (s *StubStore) New(obj Entity) {
	if s.NewFunc == nil {
		panic("New() not implemented by stub")
	}
	s.NewFunc(obj)
}

func (s *StubStore) Save(ctx context.Context) error {
	if s.SaveFunc == nil {
		return errors.New("Save() not implemented by stub")
	}
	return s.SaveFunc(ctx)
}

func (s *StubStore) Delete(obj Entity) {
	if s.DeleteFunc == nil {
		panic("Delete() not implemented by stub")
	}
	s.DeleteFunc(obj)
}
