package domain

import (
	"fmt"
	"time"
)

// Elapsed returns the net working time of s as observed at now.
//
// The end of the interval is EndedAt when present, otherwise now. When the
// session is currently paused, the open pause span (now - PausedAt) is
// subtracted. Earlier pause spans that were resumed are not tracked and so
// are never subtracted: a session started at T0, paused at T0+10m, resumed at
// T0+15m and ended at T0+60m reports 60m.
//
// The value is raw and may be negative for inconsistent input; use
// ClampedElapsed for display.
func Elapsed(s Session, now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	total := end.Sub(s.StartedAt)
	if s.Paused && s.PausedAt != nil {
		total -= now.Sub(*s.PausedAt)
	}
	return total
}

// ClampedElapsed is Elapsed floored at zero.
func ClampedElapsed(s Session, now time.Time) time.Duration {
	if d := Elapsed(s, now); d > 0 {
		return d
	}
	return 0
}

// ElapsedMinutes returns the whole minutes of Elapsed, rounded toward
// negative infinity.
func ElapsedMinutes(s Session, now time.Time) int {
	d := Elapsed(s, now)
	m := d / time.Minute
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return int(m)
}

// ElapsedHours returns ElapsedMinutes expressed in fractional hours.
func ElapsedHours(s Session, now time.Time) float64 {
	return MinutesToHours(ElapsedMinutes(s, now))
}

// FormatElapsed renders the clamped elapsed time as "2h 5m" or "45m".
func FormatElapsed(s Session, now time.Time) string {
	return FormatMinutes(int(ClampedElapsed(s, now) / time.Minute))
}

// CompletedMinutes is the deterministic minute count of a closed session,
// evaluated at its own end instant. Open sessions contribute zero.
func CompletedMinutes(s Session) int {
	if !s.Completed() {
		return 0
	}
	return ElapsedMinutes(s, *s.EndedAt)
}

// MinutesToHours converts whole minutes to fractional hours.
func MinutesToHours(min int) float64 {
	return float64(min) / 60.0
}

// FormatMinutes renders minutes as "{h}h {m}m" when at least an hour,
// otherwise "{m}m".
func FormatMinutes(min int) string {
	if min < 0 {
		min = 0
	}
	h := min / 60
	m := min % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
