// Package timelog logs how long a labelled operation took.
package timelog

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Track logs "<label> starting..." at debug level and returns a func that
// logs the elapsed time when called. Typical use:
//
//	defer timelog.Track(log, "hash resources")()
func Track(log logrus.FieldLogger, label string) func() {
	return track(log, label, false)
}

// TrackQuiet is Track without the start line.
func TrackQuiet(log logrus.FieldLogger, label string) func() {
	return track(log, label, true)
}

func track(log logrus.FieldLogger, label string, quiet bool) func() {
	if !quiet {
		log.Debugf("[%s] starting...", label)
	}

	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		log.WithField("elapsed", elapsed).Debugf("[%s]: %s", label, elapsed)
	}
}

// Func runs fn under Track and returns its results.
func Func[T any](log logrus.FieldLogger, label string, fn func() (T, error)) (T, error) {
	defer Track(log, label)()
	return fn()
}
