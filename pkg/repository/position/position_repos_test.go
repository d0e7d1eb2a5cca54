//nolint:errcheck,funlen // ok for this test code
package position

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/testsupport/testdb"
)

func TestPositionRepos(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	dev := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	assert.NoError(t, device.Create(ctx, pool, dev))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sample := model.Sample{
			FixTime:  base.Add(time.Duration(i) * time.Minute),
			SpeedKmh: float64(10 * i),
			Point:    model.GeoPoint{Latitude: 52.0 + float64(i)*0.001, Longitude: 13.0},
			Address:  "Hauptstr. 5",
			Attributes: map[string]any{
				"fuel": 80 - i,
			},
		}
		assert.NoError(t, Create(ctx, pool, dev.ID, &sample))
	}
	// one sample without a position
	assert.NoError(t, Create(ctx, pool, dev.ID, &model.Sample{
		FixTime: base.Add(10 * time.Minute),
		Point:   model.NoPosition(),
	}))

	t.Run("LoadRange is ascending and right-open", func(t *testing.T) {
		samples, err := LoadRange(ctx, pool, dev.ID, base, base.Add(4*time.Minute))
		assert.NoError(t, err)
		assert.Len(t, samples, 4)
		assert.Equal(t, base, samples[0].FixTime.UTC())
		assert.True(t, samples[0].Point.Valid())
		assert.Equal(t, "Hauptstr. 5", samples[0].Address)
	})

	t.Run("attributes survive the jsonb roundtrip", func(t *testing.T) {
		samples, err := LoadRange(ctx, pool, dev.ID, base, base.Add(time.Minute))
		assert.NoError(t, err)
		assert.Len(t, samples, 1)
		attrs, ok := samples[0].Attributes.(map[string]any)
		assert.True(t, ok)
		assert.EqualValues(t, 80, attrs["fuel"])
	})

	t.Run("LoadLatest", func(t *testing.T) {
		sample, err := LoadLatest(ctx, pool, dev.ID)
		assert.NoError(t, err)
		assert.NotNil(t, sample)
		assert.Equal(t, base.Add(10*time.Minute), sample.FixTime.UTC())
		assert.False(t, sample.Point.Valid())

		sample, err = LoadLatest(ctx, pool, -1)
		assert.NoError(t, err)
		assert.Nil(t, sample)
	})

	t.Run("LoadRecent returns newest in ascending order", func(t *testing.T) {
		samples, err := LoadRecent(ctx, pool, dev.ID, 3)
		assert.NoError(t, err)
		assert.Len(t, samples, 3)
		assert.True(t, samples[0].FixTime.Before(samples[1].FixTime))
		assert.Equal(t, base.Add(10*time.Minute), samples[2].FixTime.UTC())
	})
}
