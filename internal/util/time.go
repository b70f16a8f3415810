package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// B3 regular session, São Paulo time.
const (
	sessionOpenHour  = 10
	sessionCloseHour = 18
)

func saoPaulo() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		log.Errorf("Failed to load location 'America/Sao_Paulo': %v. Falling back to UTC-3.", err)
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// MarketOpen reports whether t falls inside a B3 regular session: weekdays
// from 10:00 to 18:00 São Paulo time. Exchange holidays are not modeled.
func MarketOpen(t time.Time) bool {
	local := t.In(saoPaulo())
	if isWeekend(local) {
		return false
	}
	return local.Hour() >= sessionOpenHour && local.Hour() < sessionCloseHour
}

// NextMarketOpen returns the start of the next B3 session at or after input,
// in UTC. Inside a session it returns the start of the following one.
func NextMarketOpen(input time.Time) time.Time {
	loc := saoPaulo()
	local := input.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), sessionOpenHour, 0, 0, 0, loc)
	if local.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	for isWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.UTC()
}
