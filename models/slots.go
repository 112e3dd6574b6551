package models

import "fmt"

// FreeInterval is a continuous block of unbooked time inside a
// provider's working window.
type FreeInterval struct {
	Start int `json:"start"` // minutes from midnight
	End   int `json:"end"`
}

// AvailableSlot is a bookable candidate of exactly the requested service
// duration, aligned to the configured granularity.
type AvailableSlot struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"` // e.g. "09:00 - 10:00"
}

// ClockLabel renders minutes from midnight as "HH:MM".
func ClockLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
