package config

import "context"

type pathKey struct{}

// WithPath returns a context carrying the config file path for the config node.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the config file path stored by WithPath,
// falling back to ResolvePath.
func PathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey{}).(string); ok && p != "" {
		return p
	}
	return ResolvePath("")
}
