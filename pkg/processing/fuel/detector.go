package fuel

import (
	"math"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

// Thresholds controls when a fuel level change counts as an event.
// An event fires if the change reaches AbsoluteLiters or if the change
// relative to the previous reading reaches Percent.
type Thresholds struct {
	AbsoluteLiters float64
	Percent        float64
	// WindowMinutes is accepted for configuration compatibility but has
	// no effect on detection: adjacent pairs are judged independently.
	WindowMinutes int
}

// DetectDrops flags abrupt decreases between consecutive readings.
// No smoothing or deduplication is performed, a noisy reading can
// produce several events in a row.
func DetectDrops(series []model.FuelSample, t Thresholds) []model.FuelEvent {
	return detect(series, t, model.FuelEventDrop)
}

// DetectRefuels flags abrupt increases between consecutive readings.
func DetectRefuels(series []model.FuelSample, t Thresholds) []model.FuelEvent {
	return detect(series, t, model.FuelEventRefuel)
}

func detect(series []model.FuelSample, t Thresholds, kind model.FuelEventKind) []model.FuelEvent {
	events := make([]model.FuelEvent, 0)
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		delta := prev.Value - cur.Value
		if kind == model.FuelEventRefuel {
			delta = cur.Value - prev.Value
		}
		if delta >= t.AbsoluteLiters || percentOf(delta, prev.Value) >= t.Percent {
			events = append(events, model.FuelEvent{
				Time:  cur.Time,
				From:  prev.Value,
				To:    cur.Value,
				Delta: delta,
				Kind:  kind,
			})
		}
	}
	return events
}

// percentOf guards against zero/near-zero base values: the percent
// condition is then simply not satisfied.
func percentOf(delta, base float64) float64 {
	if math.Abs(base) < 1e-9 {
		return math.Inf(-1)
	}
	return delta / base * 100
}
