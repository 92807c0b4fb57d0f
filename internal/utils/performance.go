package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowOperation is the duration above which a timed operation logs at Warn
const SlowOperation = 30 * time.Second

// Timer measures one operation and logs its duration on Stop
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
	now   func() time.Time
}

// NewTimer starts a timer for the named operation
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
		now:   time.Now,
	}
}

// Stop logs the elapsed time at Debug, or Warn when above SlowOperation,
// and returns it
func (t *Timer) Stop() time.Duration {
	duration := t.now().Sub(t.start)

	event := t.log.Debug()
	if duration > SlowOperation {
		event = t.log.Warn()
	}
	event.
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Msg("Operation timed")

	return duration
}
