// Package units converts human readable (value, unit) pairs into durations.
//
// Units and their aliases follow the conventions of calendar-aware duration
// libraries. Months, quarters and years are counted in average Gregorian
// months (146097/4800 days) and rounded to whole days, so a month is 30 days,
// two months are 61 days and a year is 365 days.
// Results are truncated to millisecond precision.
//
// Supported values:
//   - integer and floating point numbers of any width, interpreted in the given unit;
//   - [time.Duration], returned as is;
//   - numeric strings, interpreted in the given unit;
//   - ISO 8601 durations such as "P1DT2H30M";
//   - clock strings "[-][d.]hh:mm[:ss[.fff]]";
//   - Go duration strings such as "1h30m".
package units

//go:generate go tool errtrace -w .

import (
	"math"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/timer/internal/errorutil"
)

// Unit is a canonical duration unit.
type Unit string

// Canonical units.
const (
	Millisecond Unit = "ms"
	Second      Unit = "s"
	Minute      Unit = "m"
	Hour        Unit = "h"
	Day         Unit = "d"
	Week        Unit = "w"
	Month       Unit = "M"
	Quarter     Unit = "Q"
	Year        Unit = "y"
)

const day = 24 * time.Hour

// Parser errors.
const (
	ErrInvalidArgument       = errorutil.ErrInvalidArgument
	ErrUnknownUnit     Error = "unknown duration unit"
	ErrInvalidValue    Error = "invalid duration value"
)

// Error represents a unit parsing error.
type Error = errorutil.Error

var aliases = map[string]Unit{
	"ms": Millisecond, "millisecond": Millisecond, "milliseconds": Millisecond,
	"s": Second, "second": Second, "seconds": Second,
	"m": Minute, "minute": Minute, "minutes": Minute,
	"h": Hour, "hour": Hour, "hours": Hour,
	"d": Day, "day": Day, "days": Day,
	"w": Week, "week": Week, "weeks": Week,
	"M": Month, "month": Month, "months": Month,
	"Q": Quarter, "quarter": Quarter, "quarters": Quarter,
	"y": Year, "year": Year, "years": Year,
}

// ParseUnit returns the canonical unit for s.
// Empty s means milliseconds. One-letter aliases are case-sensitive
// ("m" is a minute, "M" is a month), long names are not.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Millisecond, nil
	}
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	if u, ok := aliases[strings.ToLower(s)]; ok && len(s) > 2 {
		return u, nil
	}
	return "", errtrace.Wrap(newUnknownUnitError(s))
}

// Of returns the length of v units.
func Of(v float64, u Unit) (time.Duration, error) {
	var ms float64
	switch u {
	case Millisecond:
		ms = v
	case Second:
		ms = v * float64(time.Second/time.Millisecond)
	case Minute:
		ms = v * float64(time.Minute/time.Millisecond)
	case Hour:
		ms = v * float64(time.Hour/time.Millisecond)
	case Day:
		ms = v * float64(day/time.Millisecond)
	case Week:
		ms = v * float64(7*day/time.Millisecond)
	case Month:
		ms = monthsToMillis(v)
	case Quarter:
		ms = monthsToMillis(3 * v)
	case Year:
		ms = monthsToMillis(12 * v)
	default:
		return 0, errtrace.Wrap(newUnknownUnitError(string(u)))
	}
	return fromMillis(ms)
}

// monthsToMillis converts months to whole days of the 400-year Gregorian cycle,
// halves round up.
func monthsToMillis(months float64) float64 {
	days := math.Floor(months*146097/4800 + 0.5)
	return days * float64(day/time.Millisecond)
}

const maxMillis = float64(1<<63-1) / float64(time.Millisecond)

func fromMillis(ms float64) (time.Duration, error) {
	if math.IsNaN(ms) || ms > maxMillis || ms < -maxMillis {
		return 0, errtrace.Wrap(newInvalidValueError("%v ms is out of range", ms))
	}
	// drop float noise below a microsecond before truncating
	ms = math.Round(ms*1000) / 1000
	return time.Duration(int64(ms)) * time.Millisecond, nil
}

// Both error kinds also match [ErrInvalidArgument].
func newUnknownUnitError(u string) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrUnknownUnit, "%q", u)) //errtrace:skip
}

func newInvalidValueError(args ...any) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrInvalidValue, args...)) //errtrace:skip
}

// Parser converts a (value, unit) pair into a duration.
type Parser interface {
	ParseDuration(value any, unit string) (time.Duration, error)
}

// ParserFunc is an adapter to allow the use of ordinary functions as [Parser].
type ParserFunc func(value any, unit string) (time.Duration, error)

// ParseDuration calls f(value, unit).
func (f ParserFunc) ParseDuration(value any, unit string) (time.Duration, error) {
	return errtrace.Wrap2(f(value, unit))
}

// Default is the default parser, backed by [Parse].
var Default Parser = ParserFunc(Parse)
