package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long an operation took. Use it deferred:
//
//	defer TrackTime("Import", time.Now())
func TrackTime(operation string, start time.Time) {
	log.WithFields(log.Fields{
		"op": operation,
		"ms": time.Since(start).Milliseconds(),
	}).Debug("timing")
}
