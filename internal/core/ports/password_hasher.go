package ports

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}
