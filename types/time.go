package types

import "time"

// TimeBucket is one row of the time dimension
type TimeBucket struct {
	StartTime time.Time `db:"start_time"`
	Hour      int       `db:"hour"`
	Day       int       `db:"day"`
	Week      int       `db:"week"`
	Month     int       `db:"month"`
	Year      int       `db:"year"`
	Weekday   int       `db:"weekday"`
}

// MillisToTime converts an epoch timestamp in milliseconds to UTC
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NewTimeBucket derives the calendar attributes of an event timestamp given in epoch milliseconds.
// Week is the ISO week number and Weekday counts from Monday=0 to Sunday=6.
func NewTimeBucket(ms int64) TimeBucket {
	t := MillisToTime(ms)
	_, week := t.ISOWeek()
	return TimeBucket{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}
