package auth

import (
	"context"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/domain"
)

type userKey struct{}

// WithUser stores the authenticated identity in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated identity, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	if u, ok := ctx.Value(userKey{}).(*domain.User); ok {
		return u
	}
	return nil
}
