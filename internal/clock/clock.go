package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock reads so time-sensitive components
// (rate limiter windows, comment timestamps) can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

var Module = fx.Module("clock",
	fx.Provide(func() Clock {
		return SystemClock{}
	}),
)
