package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// jsRound rounds half up, matching how the dashboard has always displayed numbers.
func jsRound(value float64) int {
	return int(math.Floor(value + 0.5))
}

// RoundTo1 rounds to one decimal place, half up.
func RoundTo1(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

// FirstName returns the first word of a full name.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TimeAgo renders the distance between t and now the way the dashboard lists do.
func TimeAgo(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	diff := now.Sub(*t)
	mins := int(math.Floor(diff.Minutes()))
	hours := int(math.Floor(diff.Hours()))
	days := int(math.Floor(diff.Hours() / 24))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	default:
		return t.Format("2006-01-02")
	}
}

// FormatTime renders "14:30" as "2:30 PM". Unparseable input is returned unchanged.
func FormatTime(clock string) string {
	if clock == "" {
		return ""
	}
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return parsed.Format("3:04 PM")
}

// FormatDate renders "2026-03-02" as "Mon, Mar 2". Unparseable input is returned unchanged.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Mon, Jan 2")
}
