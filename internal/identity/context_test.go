package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{ID: "doc-1", Kind: "doctor"})
	actor, ok := ActorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "doc-1", actor.ID)
	assert.Equal(t, "doctor", actor.Kind)
}

func TestActorMissing(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)
}

func TestActorEmptyIDNotPresent(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{})
	_, ok := ActorFromContext(ctx)
	assert.False(t, ok)
}
