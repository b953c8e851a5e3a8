package ctxdata

import (
	"context"
)

type traceIDKey struct{}
type userIDKey struct{}
type authTokenKey struct{}

var (
	traceIDKeyInstance   = traceIDKey{}
	userIDKeyInstance    = userIDKey{}
	authTokenKeyInstance = authTokenKey{}
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKeyInstance, traceID)
}

func GetTraceID(ctx context.Context) (string, bool) {
	v := ctx.Value(traceIDKeyInstance)
	traceID, ok := v.(string)
	return traceID, ok
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKeyInstance, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKeyInstance)
	userID, ok := v.(string)
	return userID, ok
}

// WithAuthToken binds the caller's upstream bearer token to the request
// context. The upstream client reads it per call, so credentials stay
// request-scoped and are never held in shared state.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKeyInstance, token)
}

func GetAuthToken(ctx context.Context) (string, bool) {
	v := ctx.Value(authTokenKeyInstance)
	token, ok := v.(string)
	return token, ok
}
