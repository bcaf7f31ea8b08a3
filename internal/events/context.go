package events

import "context"

type actorKeyType struct{}

var actorKey actorKeyType

// WithActor records who is performing the current request's actions.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the acting subject, or a zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey).(Actor)
	return actor
}
