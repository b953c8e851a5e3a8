package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"classgateway/internal/ctxdata"
	"classgateway/internal/errdefs"
	"classgateway/internal/logging"
	"classgateway/internal/upstream"
)

// ProfileFetcher is the slice of the upstream capability auth needs.
type ProfileFetcher interface {
	GetUserProfile(ctx context.Context, userID string) (*upstream.UserProfile, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// NewAuthMiddleware validates the bearer token by resolving the caller's own
// profile upstream, with a cache so repeat requests skip the round trip.
// Tokens are cached under their digest, never verbatim.
func NewAuthMiddleware(classroom ProfileFetcher, cache Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")
			if header == "" {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "no authorization header", zap.String("path", r.URL.Path))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			ctx = ctxdata.WithAuthToken(ctx, token)

			key := cacheKey(token)
			userID, cached := cachedUserID(ctx, cache, key)
			if !cached {
				profile, err := classroom.GetUserProfile(ctx, "me")
				if err != nil {
					if errors.Is(err, errdefs.ErrUnauthenticated) || errors.Is(err, errdefs.ErrPermissionDenied) {
						if logger, ok := logging.GetFromContext(ctx); ok {
							logger.Info(ctx, "token rejected upstream", zap.String("path", r.URL.Path))
						}
						w.WriteHeader(http.StatusUnauthorized)
						return
					}
					if logger, ok := logging.GetFromContext(ctx); ok {
						logger.Error(
							ctx, "error while validating token upstream",
							zap.String("path", r.URL.Path),
							zap.String("method", r.Method),
							zap.Error(err),
						)
					}
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				userID = profile.ID
				if cache != nil {
					cache.Set(ctx, key, []byte(userID), ttl)
				}
			}

			ctx = ctxdata.WithUserID(ctx, userID)
			r.Header.Set("X-User-Id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cachedUserID(ctx context.Context, cache Cache, key string) (string, bool) {
	if cache == nil {
		return "", false
	}
	data, ok := cache.Get(ctx, key)
	if !ok {
		return "", false
	}
	return string(data), true
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:" + hex.EncodeToString(sum[:])
}
