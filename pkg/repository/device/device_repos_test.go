//nolint:errcheck // ok for this test code
package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/testsupport/testdb"
)

func TestDeviceRepos(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	truck := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	van := &model.Device{Name: "Van 2", UniqueID: "862000002"}
	retired := &model.Device{Name: "Old 3", UniqueID: "862000003", Disabled: true}
	assert.NoError(t, Create(ctx, pool, truck))
	assert.NoError(t, Create(ctx, pool, van))
	assert.NoError(t, Create(ctx, pool, retired))
	assert.Positive(t, truck.ID)

	t.Run("LoadEnabled skips disabled, sorts by name", func(t *testing.T) {
		devices, err := LoadEnabled(ctx, pool)
		assert.NoError(t, err)
		assert.Len(t, devices, 2)
		assert.Equal(t, "Truck 1", devices[0].Name)
		assert.Equal(t, "Van 2", devices[1].Name)
	})

	t.Run("LoadByID", func(t *testing.T) {
		got, err := LoadByID(ctx, pool, truck.ID)
		assert.NoError(t, err)
		assert.Equal(t, truck.UniqueID, got.UniqueID)

		_, err = LoadByID(ctx, pool, -1)
		assert.ErrorIs(t, err, ErrDeviceNotFound)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		num, err := DeleteByID(ctx, pool, retired.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, num)

		num, err = DeleteByID(ctx, pool, retired.ID)
		assert.NoError(t, err)
		assert.Equal(t, 0, num)
	})
}
