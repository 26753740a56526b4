package existence

import (
	"context"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
)

// Prober asks the remote content store whether a path exists.
// It distinguishes a confirmed absence (false, nil) from a failed probe (false, err).
type Prober struct {
	store  ports.ContentStore
	tokens ports.TokenProvider
}

// NewProber creates a Prober.
func NewProber(store ports.ContentStore, tokens ports.TokenProvider) *Prober {
	return &Prober{store: store, tokens: tokens}
}

// Probe checks path. Without a credential it fails with domain.ErrNoCredential
// and makes no network call.
func (p *Prober) Probe(ctx context.Context, path string) (bool, error) {
	token, ok := p.tokens.CurrentToken()
	if !ok {
		return false, domain.ErrNoCredential
	}

	exists, err := p.store.Probe(ctx, token, path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "existence probe failed"), "path", path)
	}
	return exists, nil
}
