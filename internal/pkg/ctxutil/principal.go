package ctxutil

import "context"

type principalKey struct{}

// Principal is the acting user as asserted by the host video platform.
// UserID is the local row id and is zero until the user has been created
// through the users endpoint.
type Principal struct {
	UserID   int64
	ExtID    string
	Nickname string
	Email    *string
	Admin    bool
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
