package postgresadapter

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// SystemClock adapts a clockwork.Clock to ports.Clock.
type SystemClock struct {
	Clock clockwork.Clock
}

func (c SystemClock) Now() time.Time {
	if c.Clock == nil {
		return time.Now().UTC()
	}
	return c.Clock.Now().UTC()
}
