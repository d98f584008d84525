package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04:05"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([ap]m)`)

// resolveTimestamp combines a D/M/Y date and a lower-cased 12-hour clock
// reading into a timestamp. Two-digit years are taken as 20xx. Out-of-range
// fields are rejected rather than rolled over.
func resolveTimestamp(dateStr, timeStr string) (time.Time, error) {
	parts := strings.Split(dateStr, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: want day/month/year", dateStr)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q: %w", parts[0], err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q: %w", parts[1], err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("year %q: %w", parts[2], err)
	}
	if year < 100 {
		year += 2000
	}

	m := clockRe.FindStringSubmatch(timeStr)
	if m == nil {
		return time.Time{}, fmt.Errorf("time %q: format not recognized", timeStr)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	hour = to24Hour(hour, m[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if last := daysIn(time.Month(month), year); day < 1 || day > last {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}
	if hour > 23 {
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute > 59 {
		return time.Time{}, fmt.Errorf("minute %d out of range", minute)
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

// to24Hour converts a 12-hour reading. Hours outside 1..12 pass through.
func to24Hour(hour int, period string) int {
	switch {
	case period == "pm" && hour != 12:
		return hour + 12
	case period == "am" && hour == 12:
		return 0
	}
	return hour
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
