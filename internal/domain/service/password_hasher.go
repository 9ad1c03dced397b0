// Package service declares the ports the use cases call out through:
// hashing, tokens, geocoding, object storage and event publishing.
package service

// PasswordHasher turns account passwords into salted hashes and checks login
// attempts against them.
type PasswordHasher interface {
	// Hash fails for passwords the algorithm cannot accept, such as bcrypt
	// input longer than 72 bytes.
	Hash(password string) (string, error)

	// Check reports whether password produced hash. Malformed hashes never match.
	Check(password, hash string) bool
}
