package ports

// TokenProvider supplies the bearer credential for the remote content store.
//
//go:generate go run go.uber.org/mock/mockgen -source=token.go -destination=mocks/mock_token.go -package=mocks
type TokenProvider interface {
	// CurrentToken returns the configured credential.
	// ok is false when no credential is configured; remote operations must then be skipped.
	CurrentToken() (token string, ok bool)
}
