package ports

// PasswordHasher is the one-way credential function.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
