package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLog(t *testing.T) {
	actor := uuid.New()
	l, err := NewLog(Entry{ActorID: &actor, Action: ActionCreate, Entity: EntityStudent, EntityID: "abc", Summary: "Created student"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.False(t, l.CreatedAt.IsZero())
	assert.Equal(t, &actor, l.ActorID)

	_, err = NewLog(Entry{Action: Action("PURGE"), Entity: EntityStudent})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewLog(Entry{Action: ActionLogin})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
