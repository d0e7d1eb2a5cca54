package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/geocode"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/activity"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
)

// recentAlertWindow is the number of newest samples checked for a fuel
// drop in the dispatcher status view.
const recentAlertWindow = 120

type FleetService struct {
	pool        *pgxpool.Pool
	activityCfg model.ActivityConfig
	fuelService *FuelService
	addresses   *geocode.AddressResolver
	loc         *time.Location
	l           *log.Logger
}

//nolint:whitespace // can't make the linters happy
func InitFleetService(
	pool *pgxpool.Pool,
	activityCfg model.ActivityConfig,
	fuelService *FuelService,
	addresses *geocode.AddressResolver,
	loc *time.Location,
) *FleetService {
	return &FleetService{
		pool:        pool,
		activityCfg: activityCfg,
		fuelService: fuelService,
		addresses:   addresses,
		loc:         loc,
		l:           log.Default().Named("fleet"),
	}
}

// MonthOverview computes active seconds and active days per enabled
// device for one month, most active devices first.
func (s *FleetService) MonthOverview(
	ctx context.Context, month string,
) (*model.FleetOverview, error) {
	start, end, err := monthRange(month, s.loc)
	if err != nil {
		return nil, err
	}
	devices, err := device.LoadEnabled(ctx, s.pool)
	if err != nil {
		return nil, err
	}

	segmenter := activity.NewSegmenter(activity.WithConfig(s.activityCfg))
	summaries := make([]model.FleetDeviceSummary, 0, len(devices))
	for _, dev := range devices {
		samples, err := position.LoadRange(ctx, s.pool, dev.ID, start, end)
		if err != nil {
			return nil, err
		}
		daily, err := segmenter.Segment(samples)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.FleetDeviceSummary{
			DeviceID:      dev.ID,
			Name:          dev.Name,
			ActiveSeconds: lo.Sum(lo.Values(daily.SecondsByDay)),
			DaysActive: lo.CountBy(lo.Values(daily.SecondsByDay), func(sec int) bool {
				return sec > 0
			}),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ActiveSeconds > summaries[j].ActiveSeconds
	})
	return &model.FleetOverview{
		Month:   month,
		Devices: summaries,
		ActiveSeconds: lo.SumBy(summaries, func(d model.FleetDeviceSummary) int {
			return d.ActiveSeconds
		}),
	}, nil
}

// Status returns the latest known state of each enabled device for the
// dispatcher view, including fuel level, a recent drop alert if any and
// a best-effort address.
func (s *FleetService) Status(ctx context.Context) ([]model.DeviceStatus, error) {
	devices, err := device.LoadEnabled(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	ret := make([]model.DeviceStatus, 0, len(devices))
	for _, dev := range devices {
		entry := model.DeviceStatus{
			DeviceID: dev.ID,
			Name:     dev.Name,
			Point:    model.NoPosition(),
		}
		latest, err := position.LoadLatest(ctx, s.pool, dev.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			fix := latest.FixTime
			entry.LastFix = &fix
			entry.Point = latest.Point
			entry.SpeedKmh = latest.SpeedKmh
			entry.Fuel = s.fuelService.Extract(latest)
			entry.Address = s.addresses.ResolveSample(ctx, *latest)
			// alert detection is best-effort, the status row stays useful without it
			if alert, err := s.fuelService.RecentAlert(ctx, dev.ID, recentAlertWindow); err != nil {
				s.l.Error("fuel alert detection failed",
					log.Int("deviceId", dev.ID), log.ErrorField(err))
			} else {
				entry.FuelAlert = alert
			}
		}
		ret = append(ret, entry)
	}
	return ret, nil
}
