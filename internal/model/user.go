package model

import "fmt"

const ClassUser = "User"

type User struct {
	BaseModel

	Email string
	// Password holds whatever SetPassword stored, normally a hash.
	Password  string
	FirstName string
	LastName  string
}

var _ Entity = (*User)(nil)

func NewUser(email string) *User {
	return &User{BaseModel: NewBaseModel(), Email: email}
}

// PasswordHasher is satisfied by security.Argon2Hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// SetPassword stores the hash of plain, never plain itself.
func (u *User) SetPassword(h PasswordHasher, plain string) error {
	hashed, err := h.Hash(plain)
	if err != nil {
		return fmt.Errorf("hash password of user %s: %w", u.ID, err)
	}
	u.Password = hashed
	return nil
}

func (u *User) ClassName() string { return ClassUser }

func (u *User) String() string { return describe(u) }

func (u *User) ToDict() map[string]any {
	d := u.dict(ClassUser)
	d["email"] = u.Email
	d["password"] = u.Password
	d["first_name"] = u.FirstName
	d["last_name"] = u.LastName
	return d
}

func (u *User) decode(d map[string]any) error {
	if err := u.BaseModel.decode(d); err != nil {
		return err
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"email", &u.Email},
		{"password", &u.Password},
		{"first_name", &u.FirstName},
		{"last_name", &u.LastName},
	}
	for _, f := range fields {
		v, err := stringField(d, f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
