package controller

import "context"

type contextKey int

const tokenKey contextKey = 1

// ContextWithLockToken returns a context carrying the lock token used to
// authorize writes to a game.
func ContextWithLockToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// ContextGetLockToken returns the lock token on the context, or "".
func ContextGetLockToken(ctx context.Context) string {
	if s, ok := ctx.Value(tokenKey).(string); ok {
		return s
	}
	return ""
}
