package fuel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

func fuelSeries(values ...float64) []model.FuelSample {
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	ret := make([]model.FuelSample, 0, len(values))
	for i, v := range values {
		ret = append(ret, model.FuelSample{
			Time:  base.Add(time.Duration(i) * time.Minute),
			Value: v,
		})
	}
	return ret
}

func testThresholds() Thresholds {
	return Thresholds{AbsoluteLiters: 10, Percent: 8}
}

func TestDetectDrops(t *testing.T) {
	tests := []struct {
		name   string
		series []model.FuelSample
		want   int
	}{
		{"absolute threshold", fuelSeries(80, 68), 1},
		{"percent only", fuelSeries(50, 45), 1},
		{"below both thresholds", fuelSeries(50, 48), 0},
		{"increase never drops", fuelSeries(40, 60), 0},
		{"zero base guards percent", fuelSeries(0, -5), 0},
		{"no smoothing, every pair counts", fuelSeries(80, 68, 56), 2},
		{"single reading", fuelSeries(80), 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, DetectDrops(tt.series, testThresholds()), tt.want)
		})
	}
}

func TestDetectDrops_EventFields(t *testing.T) {
	series := fuelSeries(80, 68)
	events := DetectDrops(series, testThresholds())
	assert.Len(t, events, 1)
	assert.Equal(t, series[1].Time, events[0].Time)
	assert.InDelta(t, 80, events[0].From, 0.0001)
	assert.InDelta(t, 68, events[0].To, 0.0001)
	assert.InDelta(t, 12, events[0].Delta, 0.0001)
	assert.Equal(t, model.FuelEventDrop, events[0].Kind)
}

func TestDetectRefuels(t *testing.T) {
	events := DetectRefuels(fuelSeries(40, 75), testThresholds())
	assert.Len(t, events, 1)
	assert.Equal(t, model.FuelEventRefuel, events[0].Kind)
	assert.InDelta(t, 35, events[0].Delta, 0.0001)

	assert.Empty(t, DetectRefuels(fuelSeries(75, 40), testThresholds()))
}
