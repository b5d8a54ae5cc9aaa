// Package durations renders durations in a form fit for log lines.
package durations

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var units = []struct {
	length time.Duration
	name   string
}{
	{24 * time.Hour, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
}

// NiceDuration renders dur as something like "1 day 2 hours 5 minutes 3
// seconds", dropping leading units that are zero.
func NiceDuration(dur time.Duration) string {
	var parts []string

	for _, unit := range units {
		if dur < unit.length {
			continue
		}

		amount := int(dur / unit.length)
		dur -= time.Duration(amount) * unit.length

		label := unit.name
		if amount != 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", amount, label))
	}

	if dur > 0 || len(parts) == 0 {
		seconds := math.Trunc(dur.Seconds())
		label := "second"
		if seconds != 1 {
			label += "s"
		}
		// sprintf gives better control over precision here
		parts = append(parts, fmt.Sprintf("%.2g %s", seconds, label))
	}

	return strings.Join(parts, " ")
}
