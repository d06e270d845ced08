package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/sosodev/duration"
)

// Parse converts value expressed in unit into a duration.
// See the package documentation for the accepted values.
// Unit is ignored for [time.Duration] values and for strings that carry their
// own units (ISO 8601, clock and Go duration strings).
func Parse(value any, unit string) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v.Truncate(time.Millisecond), nil
	case string:
		return errtrace.Wrap2(parseString(v, unit))
	}

	n, ok := toFloat(value)
	if !ok {
		return 0, errtrace.Wrap(newInvalidValueError("unsupported type %T", value))
	}
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Of(n, u))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// clockRe matches "[-|+][d.]hh:mm[:ss[.fff]]", the day part may also be separated by a space.
var clockRe = regexp.MustCompile(`^([-+])?(?:(\d*)[. ])?(\d+):(\d+)(?::(\d+)(\.\d*)?)?$`)

func parseString(s, unit string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errtrace.Wrap(newInvalidValueError("empty string"))
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		u, err := ParseUnit(unit)
		if err != nil {
			return 0, errtrace.Wrap(err)
		}
		return errtrace.Wrap2(Of(n, u))
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		return errtrace.Wrap2(parseClock(m))
	}

	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "P") {
		d, err := duration.Parse(s)
		if err != nil {
			return 0, errtrace.Wrap(newInvalidValueError(err))
		}
		return d.ToTimeDuration().Truncate(time.Millisecond), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d.Truncate(time.Millisecond), nil
	}

	return 0, errtrace.Wrap(newInvalidValueError("%q", s))
}

func parseClock(m []string) (time.Duration, error) {
	num := func(s string) float64 {
		if s == "" {
			return 0
		}
		n, _ := strconv.ParseFloat(s, 64)
		return n
	}

	ms := num(m[2])*float64(day/time.Millisecond) +
		num(m[3])*float64(time.Hour/time.Millisecond) +
		num(m[4])*float64(time.Minute/time.Millisecond) +
		num(m[5])*float64(time.Second/time.Millisecond)
	if m[6] != "" {
		ms += math.Round(num("0"+m[6]) * 1000)
	}
	if m[1] == "-" {
		ms = -ms
	}
	return errtrace.Wrap2(fromMillis(ms))
}
