package queries_test

import (
	"testing"

	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListNotificationsQuery(t *testing.T) {
	userID := kernel.NewUUID()

	t.Run("should default the page size", func(t *testing.T) {
		q, err := queries.NewListNotificationsQuery(userID, false, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, queries.DefaultNotificationPageSize, q.Limit())
		assert.NoError(t, q.Validate())
	})

	t.Run("should reject out of range paging", func(t *testing.T) {
		_, err := queries.NewListNotificationsQuery(userID, false, queries.MaxNotificationPageSize+1, 0)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = queries.NewListNotificationsQuery(userID, false, 10, -1)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject a zero user", func(t *testing.T) {
		_, err := queries.NewListNotificationsQuery(kernel.UUID{}, true, 10, 0)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("should reject a zero value query", func(t *testing.T) {
		assert.ErrorIs(t, queries.ListNotificationsQuery{}.Validate(), queries.ErrListNotificationsQueryIsNotConstructed)
	})
}

func TestNewGetActiveOrdersQuery(t *testing.T) {
	t.Run("should accept a nil area", func(t *testing.T) {
		q, err := queries.NewGetActiveOrdersQuery(nil)
		require.NoError(t, err)
		assert.Nil(t, q.AreaID())
	})

	t.Run("should copy the area", func(t *testing.T) {
		areaID := kernel.NewUUID()
		q, err := queries.NewGetActiveOrdersQuery(&areaID)
		require.NoError(t, err)
		require.NotNil(t, q.AreaID())
		assert.Equal(t, areaID, *q.AreaID())
	})

	t.Run("should reject a zero area", func(t *testing.T) {
		_, err := queries.NewGetActiveOrdersQuery(&kernel.UUID{})
		assert.True(t, errs.IsValidation(err))
	})
}
