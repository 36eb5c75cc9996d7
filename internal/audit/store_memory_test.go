package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_AppendAndListRecent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	actions := []Action{ActionUserLogin, ActionUnitCreated, ActionBillCreated}
	for i, action := range actions {
		err := store.Append(ctx, Record{
			ID:        uuid.New(),
			Action:    action,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, ActionBillCreated, records[0].Action)
		assert.Equal(t, ActionUserLogin, records[2].Action)
	})

	t.Run("limit respected", func(t *testing.T) {
		records, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, ActionBillCreated, records[0].Action)
	})

	t.Run("empty store", func(t *testing.T) {
		empty := NewInMemoryStore()
		records, err := empty.ListRecent(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
