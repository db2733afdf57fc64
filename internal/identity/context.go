package identity

import "context"

type ctxKey string

const actorKey ctxKey = "caretap.actor"

// Actor is the authenticated principal attached to a request. Kind is
// "doctor" or "clinic"; the gateway validates it before it reaches us.
type Actor struct {
	ID   string
	Kind string
}

// WithActor stores the actor in context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the actor if present.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	val := ctx.Value(actorKey)
	if val == nil {
		return Actor{}, false
	}
	actor, ok := val.(Actor)
	return actor, ok && actor.ID != ""
}
