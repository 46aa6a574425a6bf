// Package model defines the persisted entities of hbnb and the BaseModel
// they share: identity, timestamps and the dictionary form used by every
// storage engine.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	timex "github.com/ferdiebergado/hbnb/internal/pkg/time"
	"github.com/google/uuid"
)

// ClassKey is the dictionary key naming the concrete entity type.
const ClassKey = "__class__"

var (
	ErrUnknownClass     = errors.New("model: unknown class")
	ErrInvalidTimestamp = errors.New("model: invalid timestamp")
	ErrInvalidField     = errors.New("model: invalid field")
)

// BaseModel is embedded by every entity.
type BaseModel struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseModel returns a BaseModel with a fresh UUID v4 and both timestamps
// set to the same instant.
func NewBaseModel() BaseModel {
	now := timex.Now()
	return BaseModel{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *BaseModel) GetID() string {
	return m.ID
}

// Touch refreshes UpdatedAt. It never moves UpdatedAt backwards.
func (m *BaseModel) Touch() {
	now := timex.Now()
	if now.Before(m.UpdatedAt) {
		return
	}
	m.UpdatedAt = now
}

func (m *BaseModel) base() *BaseModel {
	return m
}

func (m *BaseModel) dict(class string) map[string]any {
	return map[string]any{
		ClassKey:     class,
		"id":         m.ID,
		"created_at": timex.Format(m.CreatedAt),
		"updated_at": timex.Format(m.UpdatedAt),
	}
}

func (m *BaseModel) decode(d map[string]any) error {
	id, err := stringField(d, "id")
	if err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
	}

	now := timex.Now()
	createdAt, err := timeField(d, "created_at", now)
	if err != nil {
		return err
	}
	updatedAt, err := timeField(d, "updated_at", now)
	if err != nil {
		return err
	}

	m.ID = id
	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
	return nil
}

// Entity is implemented by the pointer types of every persisted record.
type Entity interface {
	fmt.Stringer
	ClassName() string
	GetID() string
	// ToDict returns a fresh map of the entity's attributes plus ClassKey.
	ToDict() map[string]any

	base() *BaseModel
	decode(d map[string]any) error
}

// Key returns the "<ClassName>.<id>" key used by every storage engine.
func Key(e Entity) string {
	return e.ClassName() + "." + e.GetID()
}

// Touch refreshes the UpdatedAt timestamp of e.
func Touch(e Entity) {
	e.base().Touch()
}

// Timestamps returns the creation and last update time of e.
func Timestamps(e Entity) (createdAt, updatedAt time.Time) {
	b := e.base()
	return b.CreatedAt, b.UpdatedAt
}

// IsNil reports whether e is nil or a typed nil pointer.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func describe(e Entity) string {
	attrs := e.ToDict()
	delete(attrs, ClassKey)
	return fmt.Sprintf("[%s] (%s) %v", e.ClassName(), e.GetID(), attrs)
}
