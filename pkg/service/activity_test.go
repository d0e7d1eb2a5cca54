//nolint:errcheck // ok for this test code
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
	"github.com/quicktrack/fleetcontrol-service-go/testsupport/testdb"
)

func TestMonthlyActivity(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	dev := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	assert.NoError(t, device.Create(ctx, pool, dev))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i <= 30; i++ {
		assert.NoError(t, position.Create(ctx, pool, dev.ID, &model.Sample{
			FixTime:  base.Add(time.Duration(i) * time.Minute),
			SpeedKmh: 50,
			Point:    model.GeoPoint{Latitude: 52.0, Longitude: 13.0},
		}))
	}

	s := InitActivityService(pool, model.ActivityConfig{
		MinSpeedKmh:      5,
		MinMovingSeconds: 60,
		MinStopSeconds:   600,
		StopToleranceSec: 120,
	}, time.UTC)

	got, err := s.MonthlyActivity(ctx, dev.ID, "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03", got.Month)
	assert.Len(t, got.Days, 31)

	assert.Equal(t, "2024-03-04", got.Days[3].Day)
	assert.Equal(t, 1800, got.Days[3].ActiveSeconds)
	assert.Len(t, got.Days[3].Segments, 1)

	// quiet days still render: zero seconds, empty segment list
	assert.Equal(t, 0, got.Days[0].ActiveSeconds)
	assert.NotNil(t, got.Days[0].Segments)
	assert.Empty(t, got.Days[0].Segments)

	_, err = s.MonthlyActivity(ctx, dev.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
