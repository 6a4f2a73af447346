package ports

// TokenService issues and verifies signed, expiring bearer tokens.
type TokenService interface {
	// Issue returns a signed token carrying identity.
	Issue(identity string) (string, error)

	// Verify returns the identity embedded in token.
	// Every failure (malformed, bad signature, expired) wraps domain.ErrUnauthorized.
	Verify(token string) (string, error)
}
