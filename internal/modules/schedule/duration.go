package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Duration renders the span between two HH:MM times as "2h 30m", "3h" or
// "45m". An end before the start crosses midnight. Malformed input yields "".
func Duration(start, end string) string {
	delta, ok := span(start, end)
	if !ok {
		return ""
	}
	h, m := delta/60, delta%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// CompactDuration renders the same span as "3h00" or "0h45". Only the
// add-subsubsession endpoint uses this form.
func CompactDuration(start, end string) string {
	delta, ok := span(start, end)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%dh%02d", delta/60, delta%60)
}

func span(start, end string) (int, bool) {
	s, ok := clockMinutes(start)
	if !ok {
		return 0, false
	}
	e, ok := clockMinutes(end)
	if !ok {
		return 0, false
	}
	delta := e - s
	if delta < 0 {
		delta += minutesPerDay
	}
	return delta, true
}

// clockMinutes parses HH:MM, tolerating a trailing :SS as spreadsheets
// often emit it.
func clockMinutes(v string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, false
		}
	}
	return h*60 + m, true
}

// ValidClock reports whether v parses as a time of day.
func ValidClock(v string) bool {
	_, ok := clockMinutes(v)
	return ok
}
