package variant

import (
	"math"
	"time"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

const (
	secondsPerDay = 86400
	msPerDay      = secondsPerDay * 1000

	// epochUnix is 1899-12-30T00:00:00Z in Unix seconds.
	epochUnix = -2209161600

	// Automation date range: 0100-01-01 up to the end of 9999-12-31.
	minDate = -657434.0
	maxDate = 2958466.0
)

// Epoch is day zero of the date encoding.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateFromTime returns the day count of t rounded to the millisecond. The
// integer part is the signed number of days since Epoch, the fraction is the
// time of day and is always added: 1899-12-29T06:00 is -1 + 0.25 = -0.75.
// A moment that rounds into year 10000 overflows.
func DateFromTime(t time.Time) (float64, error) {
	t = t.UTC().Round(time.Millisecond)
	if y := t.Year(); y < 100 || y > 9999 {
		return 0, hresult.Errorf(hresult.DispEOverflow, "variant: date %s outside the year range 100..9999", t.Format(time.RFC3339Nano))
	}
	secs := t.Unix() - epochUnix
	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}
	frac := (float64(rem) + float64(t.Nanosecond())/1e9) / secondsPerDay
	d := float64(days) + frac
	if _, ok := timeFromDate(d); !ok {
		return 0, hresult.Errorf(hresult.DispEOverflow, "variant: date %s does not fit the day count range", t.Format(time.RFC3339Nano))
	}
	return d, nil
}

// SplitDate returns the day number and the non-negative time-of-day
// fraction of d.
func SplitDate(d float64) (days int64, fraction float64) {
	whole := math.Floor(d)
	return int64(whole), d - whole
}

// TimeFromDate returns the UTC moment of d rounded to the millisecond. A day
// count outside 0100-01-01..9999-12-31, or one whose rounding would carry
// past 9999-12-31, overflows.
func TimeFromDate(d float64) (time.Time, error) {
	t, ok := timeFromDate(d)
	if !ok {
		return time.Time{}, hresult.Errorf(hresult.DispEOverflow, "variant: date value %v out of range", d)
	}
	return t, nil
}

func timeFromDate(d float64) (time.Time, bool) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < minDate || d >= maxDate {
		return time.Time{}, false
	}
	days, frac := SplitDate(d)
	ms := int64(math.Round(frac * msPerDay))
	if ms >= msPerDay {
		days++
		ms -= msPerDay
	}
	if days >= int64(maxDate) {
		return time.Time{}, false
	}
	return time.Unix(epochUnix+days*secondsPerDay, ms*int64(time.Millisecond)).UTC(), true
}
