package counseling

import (
	"fmt"
	"math"
	"time"
)

// DaysUntil returns the whole days between now and local midnight of the
// deadline, rounded up. ok is false for empty or malformed deadlines.
func DaysUntil(deadline string, now time.Time) (days int, ok bool) {
	if deadline == "" {
		return 0, false
	}
	target, err := time.ParseInLocation(DeadlineLayout, deadline, now.Location())
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(target.Sub(now).Hours() / 24)), true
}

func FormatDeadline(deadline string, now time.Time) string {
	days, ok := DaysUntil(deadline, now)
	switch {
	case !ok:
		return ""
	case days > 0:
		return fmt.Sprintf("%d %s left", days, plural(days))
	case days == 0:
		return "Deadline is today"
	default:
		return fmt.Sprintf("Deadline passed (%d %s ago)", -days, plural(-days))
	}
}

func plural(days int) string {
	if days == 1 {
		return "day"
	}
	return "days"
}
