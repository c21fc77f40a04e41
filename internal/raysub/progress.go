package raysub

import "github.com/rs/zerolog"

// Observer receives progress percentages and advisory status text from a
// running operation.  Calls are synchronous and must be cheap; dropping them
// never affects correctness.
type Observer interface {
	Progress(pct int)
	Status(msg string)
}

type nopObserver struct{}

func (nopObserver) Progress(int)  {}
func (nopObserver) Status(string) {}

// NopObserver discards all notifications.
var NopObserver Observer = nopObserver{}

// LogObserver forwards notifications to a zerolog logger: status text at info
// level, progress ticks at debug level.
type LogObserver struct {
	Log zerolog.Logger
}

func (o LogObserver) Progress(pct int) {
	o.Log.Debug().Int("pct", pct).Msg("progress")
}

func (o LogObserver) Status(msg string) {
	if msg != "" {
		o.Log.Info().Msg(msg)
	}
}
