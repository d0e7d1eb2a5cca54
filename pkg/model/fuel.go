package model

import "time"

// FuelSample is one fuel level reading. The value is unitless to the
// engine; it may be a percentage or liters depending on the device.
type FuelSample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"fuel"`
}

type FuelEventKind string

const (
	FuelEventDrop   FuelEventKind = "drop"
	FuelEventRefuel FuelEventKind = "refuel"
)

// FuelEvent is an abrupt change between two consecutive fuel readings.
type FuelEvent struct {
	Time  time.Time     `json:"time"`
	From  float64       `json:"from"`
	To    float64       `json:"to"`
	Delta float64       `json:"delta"`
	Kind  FuelEventKind `json:"kind"`
}
