package model

import "time"

// TripConfig holds the thresholds for building the itemized trip list.
type TripConfig struct {
	GapSeconds           int     // adjacent day segments closer than this are merged
	MinSegmentSeconds    int     // shorter trips are dropped as noise
	MinSegmentDistanceM  float64 // trips with less accumulated leg distance are dropped
	MinStartEndDistanceM float64 // trips whose endpoints are closer are dropped
	MergeStopSeconds     int     // max stop duration bridged when merging adjacent trips
	MaxPlausibleSpeedKmh float64 // leg outlier rejection threshold
}

// TripSegment is one row of the itemized trip list.
type TripSegment struct {
	Day             string    `json:"day"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	StartPoint      GeoPoint  `json:"startPoint"`
	EndPoint        GeoPoint  `json:"endPoint"`
	StartAddress    string    `json:"startAddress,omitempty"`
	EndAddress      string    `json:"endAddress,omitempty"`
	DurationSeconds int       `json:"durationSeconds"`
	DistanceKm      float64   `json:"distanceKm"`
}

// DayReportRow is one line of the monthly logbook report.
type DayReportRow struct {
	Day           string       `json:"day"`
	StartTime     *time.Time   `json:"startTime,omitempty"`
	StartAddress  string       `json:"startAddress,omitempty"`
	EndTime       *time.Time   `json:"endTime,omitempty"`
	EndAddress    string       `json:"endAddress,omitempty"`
	DistanceKm    float64      `json:"distanceKm"`
	ActiveSeconds int          `json:"activeSeconds"`
	Segments      []DaySegment `json:"segments"`
}

// TripReport is the full monthly report for one device.
type TripReport struct {
	Device          *Device        `json:"device"`
	Month           string         `json:"month"`
	Days            []DayReportRow `json:"days"`
	Trips           []TripSegment  `json:"trips"`
	TotalSeconds    int            `json:"totalSeconds"`
	TotalDistanceKm float64        `json:"totalDistanceKm"`
}
