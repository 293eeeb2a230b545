package auth

import (
	"context"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type actorKey struct{}

func NewContext(ctx context.Context, actor biz.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext returns the request actor, anonymous when none was set.
func FromContext(ctx context.Context) biz.Actor {
	actor, _ := ctx.Value(actorKey{}).(biz.Actor)
	return actor
}
