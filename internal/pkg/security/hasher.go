package security

// Hasher turns secrets into self-describing hashes and checks them back.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}
