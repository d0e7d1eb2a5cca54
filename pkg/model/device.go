package model

import "time"

// Device is a tracked vehicle as stored in the devices table.
type Device struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	UniqueID string `json:"uniqueId"`
	Disabled bool   `json:"disabled,omitempty"`
}

// DayActivityRow is the per-day output of the monthly activity view.
type DayActivityRow struct {
	Day           string       `json:"day"`
	ActiveSeconds int          `json:"activeSeconds"`
	Segments      []DaySegment `json:"segments"`
}

// FleetDeviceSummary is the per-device output of the fleet month overview.
type FleetDeviceSummary struct {
	DeviceID      int    `json:"deviceId"`
	Name          string `json:"name"`
	ActiveSeconds int    `json:"activeSeconds"`
	DaysActive    int    `json:"daysActive"`
}

// DeviceStatus is the latest known state of one device for the dispatcher view.
type DeviceStatus struct {
	DeviceID  int        `json:"deviceId"`
	Name      string     `json:"name"`
	LastFix   *time.Time `json:"lastFix,omitempty"`
	Point     GeoPoint   `json:"point"`
	Address   string     `json:"address,omitempty"`
	SpeedKmh  float64    `json:"speedKmh"`
	Fuel      *float64   `json:"fuel,omitempty"`
	FuelAlert *FuelEvent `json:"fuelAlert,omitempty"`
}

// FleetOverview is the month summary across all enabled devices.
type FleetOverview struct {
	Month         string               `json:"month"`
	Devices       []FleetDeviceSummary `json:"devices"`
	ActiveSeconds int                  `json:"activeSeconds"`
}

// MonthlyActivity is the per-day activity of one device for one month.
type MonthlyActivity struct {
	DeviceID int              `json:"deviceId"`
	Month    string           `json:"month"`
	Days     []DayActivityRow `json:"days"`
}

// MonthlyFuel is the downsampled fuel series of one device for one month.
type MonthlyFuel struct {
	DeviceID int          `json:"deviceId"`
	Month    string       `json:"month"`
	Latest   *FuelSample  `json:"latest,omitempty"`
	Series   []FuelSample `json:"series"`
	Alerts   []FuelEvent  `json:"alerts"`
	Refuels  []FuelEvent  `json:"refuels"`
}
