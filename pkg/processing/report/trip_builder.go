package report

import (
	"context"
	"time"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/geo"
)

// AddressResolver yields a best-effort human readable address for a
// sample. An empty string means "no address available".
type AddressResolver func(ctx context.Context, sample model.Sample) string

// Builder turns raw day segments plus the original sample stream into a
// coalesced, noise-filtered trip list for the monthly report.
type Builder struct {
	cfg     model.TripConfig
	samples []model.Sample
	resolve AddressResolver
	loc     *time.Location
	l       *log.Logger
}

type BuilderOption func(b *Builder)

func WithConfig(cfg model.TripConfig) BuilderOption {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithSamples sets the time-sorted raw sample stream used for
// nearest-sample lookups and distance accumulation.
func WithSamples(samples []model.Sample) BuilderOption {
	return func(b *Builder) {
		b.samples = samples
	}
}

func WithAddressResolver(resolve AddressResolver) BuilderOption {
	return func(b *Builder) {
		b.resolve = resolve
	}
}

func WithLocation(loc *time.Location) BuilderOption {
	return func(b *Builder) {
		b.loc = loc
	}
}

func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.l = l
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	ret := &Builder{
		loc: time.Local,
		l:   log.Default().Named("report"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type interval struct {
	start time.Time
	end   time.Time
}

// BuildTrips runs three passes: a coarse gap merge over the day segments,
// a re-slice against the raw samples with noise filtering, and a final
// merge of adjacent trips separated by short stops.
func (b *Builder) BuildTrips(ctx context.Context, segments []model.DaySegment) []model.TripSegment {
	coarse := b.mergeGaps(b.toIntervals(segments))
	trips := make([]model.TripSegment, 0, len(coarse))
	for i := range coarse {
		if trip, ok := b.tripFromInterval(ctx, coarse[i]); ok {
			trips = append(trips, trip)
		}
	}
	return b.mergeAdjacentTrips(trips)
}

func (b *Builder) toIntervals(segments []model.DaySegment) []interval {
	ret := make([]interval, 0, len(segments))
	for i := range segments {
		dayStart, err := time.ParseInLocation(model.DayFormat, segments[i].Day, b.loc)
		if err != nil {
			b.l.Warn("skipping segment with unparsable day",
				log.String("day", segments[i].Day), log.ErrorField(err))
			continue
		}
		ret = append(ret, interval{
			start: dayStart.Add(time.Duration(segments[i].StartSec) * time.Second),
			end:   dayStart.Add(time.Duration(segments[i].EndSec) * time.Second),
		})
	}
	return ret
}

// mergeGaps coalesces chronologically adjacent intervals whose gap is at
// most GapSeconds. This is the coarse pass used for bar rendering.
func (b *Builder) mergeGaps(intervals []interval) []interval {
	ret := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		if n := len(ret); n > 0 &&
			int(iv.start.Sub(ret[n-1].end).Seconds()) <= b.cfg.GapSeconds {
			if iv.end.After(ret[n-1].end) {
				ret[n-1].end = iv.end
			}
			continue
		}
		ret = append(ret, iv)
	}
	return ret
}

// tripFromInterval re-slices the interval into its raw-sample sub-range
// and applies the noise filters.
func (b *Builder) tripFromInterval(ctx context.Context, iv interval) (model.TripSegment, bool) {
	lo := LowerBound(b.samples, iv.start)
	hi := UpperBound(b.samples, iv.end)
	if hi-lo < 2 {
		return model.TripSegment{}, false
	}
	sub := b.samples[lo:hi]
	first, last := sub[0], sub[len(sub)-1]

	duration := int(last.FixTime.Sub(first.FixTime).Seconds())
	if duration < b.cfg.MinSegmentSeconds {
		return model.TripSegment{}, false
	}
	legKm := geo.TrackKm(sub, b.cfg.MaxPlausibleSpeedKmh)
	if legKm*1000 < b.cfg.MinSegmentDistanceM {
		return model.TripSegment{}, false
	}
	if geo.HaversineKm(first.Point, last.Point)*1000 < b.cfg.MinStartEndDistanceM {
		return model.TripSegment{}, false
	}

	trip := model.TripSegment{
		Day:             first.FixTime.In(b.loc).Format(model.DayFormat),
		StartTime:       first.FixTime,
		EndTime:         last.FixTime,
		StartPoint:      first.Point,
		EndPoint:        last.Point,
		DurationSeconds: duration,
		DistanceKm:      legKm,
	}
	if b.resolve != nil {
		trip.StartAddress = b.resolve(ctx, first)
		trip.EndAddress = b.resolve(ctx, last)
	}
	return trip, true
}

// mergeAdjacentTrips joins surviving trips separated by at most
// MergeStopSeconds when the stop location matches, either by identical
// resolved address text or by proximity of end and start points.
// Merged trips are not re-validated against the noise filters.
func (b *Builder) mergeAdjacentTrips(trips []model.TripSegment) []model.TripSegment {
	ret := make([]model.TripSegment, 0, len(trips))
	for _, trip := range trips {
		n := len(ret)
		if n == 0 {
			ret = append(ret, trip)
			continue
		}
		prev := &ret[n-1]
		gap := int(trip.StartTime.Sub(prev.EndTime).Seconds())
		if gap <= b.cfg.MergeStopSeconds && b.sameStop(prev, &trip) {
			prev.EndTime = trip.EndTime
			prev.EndPoint = trip.EndPoint
			prev.EndAddress = trip.EndAddress
			prev.DurationSeconds = int(prev.EndTime.Sub(prev.StartTime).Seconds())
			prev.DistanceKm += trip.DistanceKm
			continue
		}
		ret = append(ret, trip)
	}
	return ret
}

// sameStop decides if the gap between prev and next is one stop.
// Address equality is a best-effort signal: two distinct stops resolving
// to the same address text will merge.
func (b *Builder) sameStop(prev, next *model.TripSegment) bool {
	if prev.EndAddress != "" && prev.EndAddress == next.StartAddress {
		return true
	}
	return geo.HaversineKm(prev.EndPoint, next.StartPoint)*1000 < b.cfg.MinStartEndDistanceM
}
