package auth

import (
	"context"

	"orderflow/internal/entities"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, identity entities.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (entities.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(entities.Identity)
	return identity, ok
}
