package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/activity"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/position"
)

type ActivityService struct {
	pool *pgxpool.Pool
	cfg  model.ActivityConfig
	loc  *time.Location
}

func InitActivityService(
	pool *pgxpool.Pool, cfg model.ActivityConfig, loc *time.Location,
) *ActivityService {
	return &ActivityService{pool: pool, cfg: cfg, loc: loc}
}

// MonthlyActivity computes the per-day active time of one device,
// padded over all days of the month.
func (s *ActivityService) MonthlyActivity(
	ctx context.Context, deviceID int, month string,
) (*model.MonthlyActivity, error) {
	start, end, err := monthRange(month, s.loc)
	if err != nil {
		return nil, err
	}
	samples, err := position.LoadRange(ctx, s.pool, deviceID, start, end)
	if err != nil {
		return nil, err
	}
	daily, err := activity.NewSegmenter(activity.WithConfig(s.cfg)).Segment(samples)
	if err != nil {
		return nil, err
	}

	days := make([]model.DayActivityRow, 0, daysInMonth(start))
	for d := 1; d <= daysInMonth(start); d++ {
		day := start.AddDate(0, 0, d-1).Format(model.DayFormat)
		segments := daily.SegmentsByDay[day]
		if segments == nil {
			segments = []model.DaySegment{}
		}
		days = append(days, model.DayActivityRow{
			Day:           day,
			ActiveSeconds: daily.SecondsByDay[day],
			Segments:      segments,
		})
	}
	return &model.MonthlyActivity{DeviceID: deviceID, Month: month, Days: days}, nil
}
