package payments

import (
	"context"
	"errors"
)

type userContextKey struct{}

// SetUserToContext stores the authenticated user ID in context for
// middleware chain access.
func SetUserToContext(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userContextKey{}, uid)
}

// GetUserFromContext retrieves the authenticated user ID from context.
func GetUserFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userContextKey{}).(string)
	return uid, ok && uid != ""
}

// UserResolver resolves the currently signed-in user's ID. The resolver is a
// collaborator of the client: authentication itself happens elsewhere.
type UserResolver func(ctx context.Context) (string, error)

// ContextUserResolver is the default resolver that retrieves the user ID
// from context. This keeps the client free of any authentication dependency;
// the HTTP layer (or tests) put the user ID into the request context.
func ContextUserResolver(ctx context.Context) (string, error) {
	uid, ok := GetUserFromContext(ctx)
	if !ok {
		return "", errors.Join(ErrNoSignedInUser, errors.New("user id not found in context"))
	}
	return uid, nil
}
