package datatype

import "fmt"

// TimeUnit is the resolution of a temporal type.
type TimeUnit uint8

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

// String returns the unit suffix used in names.
func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "s"
	case Millisecond:
		return "ms"
	case Microsecond:
		return "us"
	case Nanosecond:
		return "ns"
	}
	return "?"
}

func (u TimeUnit) formatChar() byte {
	switch u {
	case Second:
		return 's'
	case Millisecond:
		return 'm'
	case Microsecond:
		return 'u'
	case Nanosecond:
		return 'n'
	}
	return '?'
}

// Date types: days (32-bit) or milliseconds (64-bit) since the UNIX epoch.
var (
	Date32 DataType = &Primitive{DATE32, "date32", "tdD", 32}
	Date64 DataType = &Primitive{DATE64, "date64", "tdm", 64}
)

// Time32 is a time of day stored as int32 (seconds or milliseconds).
type Time32 struct {
	Unit TimeUnit
}

// ID implements DataType.
func (t *Time32) ID() ID { return TIME32 }

// Name implements DataType.
func (t *Time32) Name() string { return fmt.Sprintf("time32[%s]", t.Unit) }

// Format implements DataType.
func (t *Time32) Format() string { return "tt" + string(t.Unit.formatChar()) }

// Time64 is a time of day stored as int64 (microseconds or nanoseconds).
type Time64 struct {
	Unit TimeUnit
}

// ID implements DataType.
func (t *Time64) ID() ID { return TIME64 }

// Name implements DataType.
func (t *Time64) Name() string { return fmt.Sprintf("time64[%s]", t.Unit) }

// Format implements DataType.
func (t *Time64) Format() string { return "tt" + string(t.Unit.formatChar()) }

// Timestamp is an instant stored as int64 since the UNIX epoch, with an
// optional timezone.
type Timestamp struct {
	Unit     TimeUnit
	TimeZone string
}

// ID implements DataType.
func (t *Timestamp) ID() ID { return TIMESTAMP }

// Name implements DataType.
func (t *Timestamp) Name() string {
	if t.TimeZone == "" {
		return fmt.Sprintf("timestamp[%s]", t.Unit)
	}
	return fmt.Sprintf("timestamp[%s, %s]", t.Unit, t.TimeZone)
}

// Format implements DataType.
func (t *Timestamp) Format() string {
	return "ts" + string(t.Unit.formatChar()) + ":" + t.TimeZone
}

// Duration is an elapsed time stored as int64.
type Duration struct {
	Unit TimeUnit
}

// ID implements DataType.
func (t *Duration) ID() ID { return DURATION }

// Name implements DataType.
func (t *Duration) Name() string { return fmt.Sprintf("duration[%s]", t.Unit) }

// Format implements DataType.
func (t *Duration) Format() string { return "tD" + string(t.Unit.formatChar()) }

// Interval types.
var (
	IntervalMonths       DataType = &Primitive{INTERVAL_MONTHS, "interval_months", "tiM", 32}
	IntervalDayTime      DataType = &Primitive{INTERVAL_DAY_TIME, "interval_day_time", "tiD", 64}
	IntervalMonthDayNano DataType = &Primitive{INTERVAL_MONTH_DAY_NANO, "interval_month_day_nano", "tin", 128}
)
