//nolint:errcheck,funlen // ok for this test code
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/geocode"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
	"github.com/quicktrack/fleetcontrol-service-go/testsupport/testdb"
)

func testTripConfig() model.TripConfig {
	return model.TripConfig{
		GapSeconds:           300,
		MinSegmentSeconds:    180,
		MinSegmentDistanceM:  300,
		MinStartEndDistanceM: 150,
		MergeStopSeconds:     180,
		MaxPlausibleSpeedKmh: 160,
	}
}

func TestMonthlyTripReport(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	dev := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	assert.NoError(t, device.Create(ctx, pool, dev))

	// one 10 minute trip heading north, roughly 280m per sample
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i <= 20; i++ {
		assert.NoError(t, position.Create(ctx, pool, dev.ID, &model.Sample{
			FixTime:  base.Add(time.Duration(i*30) * time.Second),
			SpeedKmh: 50,
			Point:    model.GeoPoint{Latitude: 52.0 + float64(i)*0.0025, Longitude: 13.0},
			Address:  "Hauptstr. 5",
		}))
	}

	s := InitReportService(pool, testActivityConfig(), testTripConfig(),
		geocode.NewAddressResolver(), time.UTC)

	got, err := s.MonthlyTripReport(ctx, dev.ID, "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, dev.ID, got.Device.ID)
	assert.Equal(t, "2024-03", got.Month)
	assert.Len(t, got.Days, 31)

	day := got.Days[3]
	assert.Equal(t, "2024-03-04", day.Day)
	assert.Equal(t, 600, day.ActiveSeconds)
	assert.NotNil(t, day.StartTime)
	assert.Equal(t, base, day.StartTime.UTC())
	assert.NotNil(t, day.EndTime)
	assert.Equal(t, base.Add(10*time.Minute), day.EndTime.UTC())
	assert.Equal(t, "Hauptstr. 5", day.StartAddress)
	assert.Equal(t, "Hauptstr. 5", day.EndAddress)
	assert.InDelta(t, 5.56, day.DistanceKm, 0.3)
	assert.Len(t, day.Segments, 1)

	// quiet day still renders as an empty row
	quiet := got.Days[0]
	assert.Equal(t, 0, quiet.ActiveSeconds)
	assert.Nil(t, quiet.StartTime)
	assert.NotNil(t, quiet.Segments)
	assert.Empty(t, quiet.Segments)
	assert.Zero(t, quiet.DistanceKm)

	assert.Len(t, got.Trips, 1)
	assert.Equal(t, 600, got.Trips[0].DurationSeconds)
	assert.InDelta(t, 5.56, got.Trips[0].DistanceKm, 0.3)
	assert.Equal(t, "Hauptstr. 5", got.Trips[0].StartAddress)

	assert.Equal(t, 600, got.TotalSeconds)
	assert.InDelta(t, day.DistanceKm, got.TotalDistanceKm, 0.0001)
}

func TestMonthlyTripReport_Errors(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	dev := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	assert.NoError(t, device.Create(ctx, pool, dev))

	s := InitReportService(pool, testActivityConfig(), testTripConfig(),
		geocode.NewAddressResolver(), time.UTC)

	_, err := s.MonthlyTripReport(ctx, -1, "2024-03")
	assert.ErrorIs(t, err, device.ErrDeviceNotFound)

	_, err = s.MonthlyTripReport(ctx, dev.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
