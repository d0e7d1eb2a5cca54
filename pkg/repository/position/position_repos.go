package position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository"
)

const selector = string(`
select fixtime, speed, latitude, longitude, coalesce(address,''), attributes
from positions
`)

func Create(
	ctx context.Context, conn repository.Querier, deviceID int, sample *model.Sample,
) error {
	var lat, lon *float64
	if sample.Point.Valid() {
		lat, lon = &sample.Point.Latitude, &sample.Point.Longitude
	}
	_, err := conn.Exec(ctx, `
	insert into positions (deviceid, fixtime, speed, latitude, longitude, address, attributes)
	values ($1,$2,$3,$4,$5,$6,$7)
	`, deviceID, sample.FixTime, sample.SpeedKmh, lat, lon, sample.Address, sample.Attributes)
	return err
}

// LoadRange returns the samples of one device within [from, to) in
// ascending time order.
//
//nolint:whitespace // can't make the linters happy
func LoadRange(
	ctx context.Context, conn repository.Querier, deviceID int, from, to time.Time,
) ([]model.Sample, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where deviceid=$1 and fixtime >= $2 and fixtime < $3 order by fixtime asc",
			selector),
		deviceID, from, to)
	if err != nil {
		return nil, err
	}
	return collectSamples(rows)
}

// LoadLatest returns the most recent sample of one device or nil if the
// device never reported.
//
//nolint:whitespace // can't make the linters happy
func LoadLatest(
	ctx context.Context, conn repository.Querier, deviceID int,
) (*model.Sample, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where deviceid=$1 order by fixtime desc limit 1", selector),
		deviceID)
	sample, err := scanSample(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}

// LoadRecent returns the newest limit samples of one device in ascending
// time order.
//
//nolint:whitespace // can't make the linters happy
func LoadRecent(
	ctx context.Context, conn repository.Querier, deviceID, limit int,
) ([]model.Sample, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where deviceid=$1 order by fixtime desc limit $2", selector),
		deviceID, limit)
	if err != nil {
		return nil, err
	}
	samples, err := collectSamples(rows)
	if err != nil {
		return nil, err
	}
	// query is newest-first, processing wants ascending order
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

func collectSamples(rows pgx.Rows) ([]model.Sample, error) {
	return pgx.CollectRows[model.Sample](rows,
		func(row pgx.CollectableRow) (model.Sample, error) {
			return scanSample(row)
		})
}

func scanSample(row pgx.Row) (model.Sample, error) {
	var (
		sample   model.Sample
		lat, lon *float64
	)
	if err := row.Scan(&sample.FixTime, &sample.SpeedKmh,
		&lat, &lon, &sample.Address, &sample.Attributes); err != nil {
		return model.Sample{}, err
	}
	sample.Point = model.NoPosition()
	if lat != nil && lon != nil {
		sample.Point = model.GeoPoint{Latitude: *lat, Longitude: *lon}
	}
	return sample, nil
}
