package vette

import (
	"time"
)

const TimeFormat string = "2006-01-02T15:04:05.999999"

// Hook observes hold events. Hooks are audit sinks only; a failing hook
// never fails the hold.
type Hook interface {
	Name() string
	AfterInit()
	AfterHold(*AfterHoldData)
}

type AfterHoldData struct {
	OccurredAt time.Time
	List       string
	Sender     string
	MessageID  string
	Reason     string
	Token      string
}
