package auth

import (
	"context"
	"slices"
	"strings"
)

const RoleAdmin = "ADMIN"

// Identity is the caller established from a verified bearer token.
type Identity struct {
	Email string
	Roles []string
	Token string
}

func (i Identity) HasRole(role string) bool {
	return slices.ContainsFunc(i.Roles, func(r string) bool {
		return strings.EqualFold(strings.TrimPrefix(r, "ROLE_"), role)
	})
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// GetEmail returns the signed-in shopper's email, or "" for anonymous calls.
func GetEmail(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return strings.TrimSpace(id.Email)
}

// GetToken returns the raw bearer token so it can be forwarded to
// collaborators on the caller's behalf.
func GetToken(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.Token
}
