package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/geocode"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/activity"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/geo"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/report"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
)

type ReportService struct {
	pool        *pgxpool.Pool
	activityCfg model.ActivityConfig
	tripCfg     model.TripConfig
	addresses   *geocode.AddressResolver
	loc         *time.Location
}

//nolint:whitespace // can't make the linters happy
func InitReportService(
	pool *pgxpool.Pool,
	activityCfg model.ActivityConfig,
	tripCfg model.TripConfig,
	addresses *geocode.AddressResolver,
	loc *time.Location,
) *ReportService {
	return &ReportService{
		pool:        pool,
		activityCfg: activityCfg,
		tripCfg:     tripCfg,
		addresses:   addresses,
		loc:         loc,
	}
}

// MonthlyTripReport assembles the logbook data of one device for one
// month: a padded per-day table with start/end of the first/last trip of
// the day plus the merged, noise-filtered trip list.
//
//nolint:funlen // report assembly reads best in one piece
func (s *ReportService) MonthlyTripReport(
	ctx context.Context, deviceID int, month string,
) (*model.TripReport, error) {
	start, end, err := monthRange(month, s.loc)
	if err != nil {
		return nil, err
	}
	dev, err := device.LoadByID(ctx, s.pool, deviceID)
	if err != nil {
		return nil, err
	}
	samples, err := position.LoadRange(ctx, s.pool, deviceID, start, end)
	if err != nil {
		return nil, err
	}
	daily, err := activity.NewSegmenter(activity.WithConfig(s.activityCfg)).Segment(samples)
	if err != nil {
		return nil, err
	}

	ret := &model.TripReport{Device: dev, Month: month}
	for d := 1; d <= daysInMonth(start); d++ {
		dayStart := start.AddDate(0, 0, d-1)
		day := dayStart.Format(model.DayFormat)
		row := model.DayReportRow{
			Day:           day,
			ActiveSeconds: daily.SecondsByDay[day],
			Segments:      daily.SegmentsByDay[day],
		}
		if row.Segments == nil {
			row.Segments = []model.DaySegment{}
		}

		first := report.LowerBound(samples, dayStart)
		last := report.LowerBound(samples, dayStart.AddDate(0, 0, 1))
		dayRows := samples[first:last]
		row.DistanceKm = geo.TrackKm(dayRows, s.tripCfg.MaxPlausibleSpeedKmh)

		moving := lo.Filter(dayRows, func(r model.Sample, _ int) bool {
			return r.SpeedKmh >= s.activityCfg.MinSpeedKmh
		})
		if len(moving) > 0 {
			startFix := moving[0].FixTime
			endFix := moving[len(moving)-1].FixTime
			row.StartTime = &startFix
			row.EndTime = &endFix
			if idx := report.NearestIndex(dayRows, startFix); idx >= 0 {
				row.StartAddress = s.addresses.ResolveSample(ctx, dayRows[idx])
			}
			if idx := report.NearestIndex(dayRows, endFix); idx >= 0 {
				row.EndAddress = s.addresses.ResolveSample(ctx, dayRows[idx])
			}
		}

		ret.TotalSeconds += row.ActiveSeconds
		ret.TotalDistanceKm += row.DistanceKm
		ret.Days = append(ret.Days, row)
	}

	builder := report.NewBuilder(
		report.WithConfig(s.tripCfg),
		report.WithSamples(samples),
		report.WithAddressResolver(s.addresses.ResolveSample),
		report.WithLocation(s.loc),
	)
	ret.Trips = builder.BuildTrips(ctx, orderedSegments(daily))
	return ret, nil
}

// orderedSegments flattens the per-day segment map into one
// chronological list.
func orderedSegments(daily *model.DailyActivity) []model.DaySegment {
	days := lo.Keys(daily.SegmentsByDay)
	sort.Strings(days)
	ret := make([]model.DaySegment, 0)
	for _, day := range days {
		ret = append(ret, daily.SegmentsByDay[day]...)
	}
	return ret
}
