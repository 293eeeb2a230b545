package server

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type tokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type actorResolver interface {
	ResolveActor(ctx context.Context, userID string) (biz.Actor, error)
}

// AuthMiddleware resolves an optional Bearer token to the request actor.
// Requests without an Authorization header continue as anonymous; a header
// that does not verify, or names a user that no longer exists, is rejected.
func AuthMiddleware(tokens tokenParser, users actorResolver) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			authHeader := tr.RequestHeader().Get("Authorization")
			if authHeader == "" {
				return handler(ctx, req)
			}

			// Check Bearer token format
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return nil, errors.Unauthorized("UNAUTHORIZED", "invalid Authorization header format")
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, err
			}

			actor, err := users.ResolveActor(ctx, claims.Subject)
			if err != nil {
				return nil, err
			}

			return handler(auth.NewContext(ctx, actor), req)
		}
	}
}
