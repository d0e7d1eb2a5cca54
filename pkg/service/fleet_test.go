//nolint:errcheck,funlen // ok for this test code
package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/geocode"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/fuel"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
	"github.com/quicktrack/fleetcontrol-service-go/testsupport/testdb"
)

func testActivityConfig() model.ActivityConfig {
	return model.ActivityConfig{
		MinSpeedKmh:      5,
		MinMovingSeconds: 60,
		MinStopSeconds:   600,
		StopToleranceSec: 120,
	}
}

func TestFleetStatus(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	truck := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	silent := &model.Device{Name: "Van 2", UniqueID: "862000002"}
	assert.NoError(t, device.Create(ctx, pool, truck))
	assert.NoError(t, device.Create(ctx, pool, silent))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	assert.NoError(t, position.Create(ctx, pool, truck.ID, &model.Sample{
		FixTime:    base,
		Point:      model.GeoPoint{Latitude: 52.52, Longitude: 13.405},
		Address:    "Hauptstr. 5",
		Attributes: map[string]any{"fuel": 80},
	}))
	assert.NoError(t, position.Create(ctx, pool, truck.ID, &model.Sample{
		FixTime:    base.Add(time.Minute),
		Point:      model.GeoPoint{Latitude: 52.52, Longitude: 13.405},
		Address:    "Hauptstr. 5",
		Attributes: map[string]any{"fuel": 68},
	}))

	fuelService := InitFuelService(pool,
		fuel.NewExtractor(fuel.WithCandidateKeys("fuel")),
		fuel.Thresholds{AbsoluteLiters: 10, Percent: 8},
		fuel.Thresholds{AbsoluteLiters: 10, Percent: 8},
		time.UTC)
	s := InitFleetService(pool, testActivityConfig(), fuelService,
		geocode.NewAddressResolver(), time.UTC)

	status, err := s.Status(ctx)
	assert.NoError(t, err)
	assert.Len(t, status, 2)

	assert.Equal(t, "Truck 1", status[0].Name)
	assert.NotNil(t, status[0].LastFix)
	assert.Equal(t, base.Add(time.Minute), status[0].LastFix.UTC())
	assert.Equal(t, "Hauptstr. 5", status[0].Address)
	assert.NotNil(t, status[0].Fuel)
	assert.InDelta(t, 68, *status[0].Fuel, 0.0001)
	assert.NotNil(t, status[0].FuelAlert)
	assert.InDelta(t, 12, status[0].FuelAlert.Delta, 0.0001)

	// a device that never reported still gets a row
	assert.Equal(t, "Van 2", status[1].Name)
	assert.Nil(t, status[1].LastFix)
	assert.False(t, status[1].Point.Valid())
	assert.Nil(t, status[1].Fuel)
	assert.Nil(t, status[1].FuelAlert)
	assert.Empty(t, status[1].Address)

	// the whole view must survive serialization, missing fix included
	data, err := json.Marshal(status)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"point":null`)
}

func TestFleetMonthOverview(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	truck := &model.Device{Name: "Truck 1", UniqueID: "862000001"}
	parked := &model.Device{Name: "Van 2", UniqueID: "862000002"}
	assert.NoError(t, device.Create(ctx, pool, truck))
	assert.NoError(t, device.Create(ctx, pool, parked))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i <= 30; i++ {
		assert.NoError(t, position.Create(ctx, pool, truck.ID, &model.Sample{
			FixTime:  base.Add(time.Duration(i) * time.Minute),
			SpeedKmh: 50,
			Point:    model.GeoPoint{Latitude: 52.0, Longitude: 13.0},
		}))
	}

	fuelService := InitFuelService(pool,
		fuel.NewExtractor(fuel.WithCandidateKeys("fuel")),
		fuel.Thresholds{AbsoluteLiters: 10, Percent: 8},
		fuel.Thresholds{AbsoluteLiters: 10, Percent: 8},
		time.UTC)
	s := InitFleetService(pool, testActivityConfig(), fuelService,
		geocode.NewAddressResolver(), time.UTC)

	got, err := s.MonthOverview(ctx, "2024-03")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03", got.Month)
	assert.Len(t, got.Devices, 2)
	assert.Equal(t, 1800, got.ActiveSeconds)

	// most active first
	assert.Equal(t, "Truck 1", got.Devices[0].Name)
	assert.Equal(t, 1800, got.Devices[0].ActiveSeconds)
	assert.Equal(t, 1, got.Devices[0].DaysActive)
	assert.Equal(t, 0, got.Devices[1].ActiveSeconds)
	assert.Equal(t, 0, got.Devices[1].DaysActive)

	_, err = s.MonthOverview(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
