package normalize

import (
	"strings"
	"time"
)

// TimeOfDay is a wall-clock reading expressed as the offset from midnight.
// Run logs carry only the time of day, so a run that crosses midnight has no
// defined ordering here.
type TimeOfDay time.Duration

// Seconds returns the offset from midnight in seconds.
func (t TimeOfDay) Seconds() float64 {
	return time.Duration(t).Seconds()
}

// Sub returns t-u in seconds.
func (t TimeOfDay) Sub(u TimeOfDay) float64 {
	return time.Duration(t - u).Seconds()
}

// ParseTime parses "HH:MM:SS" or "HH:MM:SS.fff" (1 to 9 fraction digits).
// Missing or malformed input reports false; it never fails louder than that.
func ParseTime(raw string) (TimeOfDay, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return 0, false
	}

	h, ok := twoDigits(s[0:2])
	if !ok || h > 23 {
		return 0, false
	}
	m, ok := twoDigits(s[3:5])
	if !ok || m > 59 {
		return 0, false
	}
	sec, ok := twoDigits(s[6:8])
	if !ok || sec > 59 {
		return 0, false
	}

	var frac time.Duration
	if rest := s[8:]; rest != "" {
		digits := rest[1:]
		if rest[0] != '.' || len(digits) == 0 || len(digits) > 9 {
			return 0, false
		}
		scale := time.Duration(100_000_000)
		for i := 0; i < len(digits); i++ {
			c := digits[i]
			if c < '0' || c > '9' {
				return 0, false
			}
			frac += time.Duration(c-'0') * scale
			scale /= 10
		}
	}

	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		frac
	return TimeOfDay(d), true
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
