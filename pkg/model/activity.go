package model

// ActivityConfig holds the thresholds driving the activity state machine.
type ActivityConfig struct {
	MinSpeedKmh      float64 // below this a sample does not count as moving
	MinMovingSeconds int     // blocks shorter than this are discarded entirely
	MinStopSeconds   int     // idle time or data gap that force-ends a block
	StopToleranceSec int     // sub-threshold dips up to this length keep a block open
}

// DaySegment is the part of one moving block falling on a single calendar day.
// Seconds are relative to the start of that day, within [0, 86400].
type DaySegment struct {
	Day      string `json:"day"`
	StartSec int    `json:"start"`
	EndSec   int    `json:"end"`
}

// DailyActivity aggregates all retained moving blocks of one query window.
type DailyActivity struct {
	SecondsByDay  map[string]int          `json:"secondsByDay"`
	SegmentsByDay map[string][]DaySegment `json:"segmentsByDay"`
}

func NewDailyActivity() *DailyActivity {
	return &DailyActivity{
		SecondsByDay:  make(map[string]int),
		SegmentsByDay: make(map[string][]DaySegment),
	}
}
