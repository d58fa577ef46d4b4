package timer

import (
	"fmt"
	"time"
)

// LabelFor derives the topic label used for an interval timer's
// reserved topic, EventEngine.Internal.Timer.<label>. The source
// engine never canonicalised labels beyond "Second"/"Minute" (an
// explicit open question); this is the deterministic scheme chosen to
// resolve it:
//
//	1s     -> "Second"
//	60s    -> "Minute"
//	3600s  -> "Hour"
//	86400s -> "Day"
//	other whole-second durations -> "<N>Sec"
//	sub-second or non-whole-second durations -> "<N>Ms"
func LabelFor(d time.Duration) string {
	if d <= 0 {
		d = time.Second
	}

	if d < time.Second || d%time.Second != 0 {
		return fmt.Sprintf("%dMs", d.Milliseconds())
	}

	switch secs := int64(d / time.Second); secs {
	case 1:
		return "Second"
	case 60:
		return "Minute"
	case 3600:
		return "Hour"
	case 86400:
		return "Day"
	default:
		return fmt.Sprintf("%dSec", secs)
	}
}
