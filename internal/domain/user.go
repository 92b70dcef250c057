package domain

import (
	"context"
	"slices"
	"time"
)

// User is an identity that can pay for or share in transactions.
type User struct {
	CreatedAt time.Time
	ID        string
	Name      string
}

// Group is a named set of users. A transaction optionally belongs to one.
type Group struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Members   []string
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

type actorKey struct{}

// ContextWithActor returns a context carrying the calling user's ID.
func ContextWithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the calling user's ID, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}
