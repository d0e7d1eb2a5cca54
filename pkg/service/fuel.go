package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/fuel"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
)

const minuteKeyFormat = "2006-01-02 15:04"

type FuelService struct {
	pool      *pgxpool.Pool
	extractor *fuel.Extractor
	drops     fuel.Thresholds
	refuels   fuel.Thresholds
	loc       *time.Location
}

//nolint:whitespace // can't make the linters happy
func InitFuelService(
	pool *pgxpool.Pool,
	extractor *fuel.Extractor,
	drops, refuels fuel.Thresholds,
	loc *time.Location,
) *FuelService {
	return &FuelService{
		pool:      pool,
		extractor: extractor,
		drops:     drops,
		refuels:   refuels,
		loc:       loc,
	}
}

// MonthlyFuel builds the per-minute downsampled fuel series of one
// device (last reading per minute wins) and runs event detection on it.
func (s *FuelService) MonthlyFuel(
	ctx context.Context, deviceID int, month string,
) (*model.MonthlyFuel, error) {
	start, end, err := monthRange(month, s.loc)
	if err != nil {
		return nil, err
	}
	samples, err := position.LoadRange(ctx, s.pool, deviceID, start, end)
	if err != nil {
		return nil, err
	}

	series := s.Downsample(samples)
	ret := &model.MonthlyFuel{
		DeviceID: deviceID,
		Month:    month,
		Series:   series,
		Alerts:   fuel.DetectDrops(series, s.drops),
		Refuels:  fuel.DetectRefuels(series, s.refuels),
	}
	if len(series) > 0 {
		ret.Latest = &series[len(series)-1]
	}
	return ret, nil
}

// Downsample keeps the last fuel reading per minute, in ascending time
// order. Samples without a usable fuel value are skipped.
func (s *FuelService) Downsample(samples []model.Sample) []model.FuelSample {
	byMinute := make(map[string]model.FuelSample)
	for i := range samples {
		val, ok := s.extractor.Extract(samples[i].Attributes)
		if !ok {
			continue
		}
		key := samples[i].FixTime.In(s.loc).Format(minuteKeyFormat)
		byMinute[key] = model.FuelSample{Time: samples[i].FixTime, Value: val}
	}
	series := lo.Values(byMinute)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series
}

// RecentAlert checks the newest readings of a device for a fuel drop and
// returns the latest one, or nil.
func (s *FuelService) RecentAlert(
	ctx context.Context, deviceID, limit int,
) (*model.FuelEvent, error) {
	samples, err := position.LoadRecent(ctx, s.pool, deviceID, limit)
	if err != nil {
		return nil, err
	}
	alerts := fuel.DetectDrops(s.Downsample(samples), s.drops)
	if len(alerts) == 0 {
		return nil, nil
	}
	return &alerts[len(alerts)-1], nil
}

// Extract returns the fuel value of a single sample, if any.
func (s *FuelService) Extract(sample *model.Sample) *float64 {
	if sample == nil {
		return nil
	}
	if val, ok := s.extractor.Extract(sample.Attributes); ok {
		return &val
	}
	return nil
}
