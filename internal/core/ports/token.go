package ports

// TokenIssuer mints signed, time-bounded tokens.
type TokenIssuer interface {
	Issue(subject string, roles []string) (string, error)
}

// TokenValidator checks tokens. Validate fails closed and never panics on
// malformed input. ExtractSubject and ExtractRoles do not verify the
// signature and must be paired with Validate before any authorization use.
type TokenValidator interface {
	Validate(token, expectedSubject string) bool
	ExtractSubject(token string) (string, error)
	ExtractRoles(token string) ([]string, error)
}
