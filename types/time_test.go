package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimeBucket(t *testing.T) {
	tests := []struct {
		name     string
		ts       int64
		expected TimeBucket
	}{
		{
			name: "weekday in november",
			ts:   1541105830796,
			expected: TimeBucket{
				StartTime: time.Date(2018, time.November, 1, 20, 57, 10, 796*int(time.Millisecond), time.UTC),
				Hour:      20,
				Day:       1,
				Week:      44,
				Month:     11,
				Year:      2018,
				Weekday:   3,
			},
		},
		{
			name: "sunday is the last day of the week",
			ts:   1541289600000,
			expected: TimeBucket{
				StartTime: time.Date(2018, time.November, 4, 0, 0, 0, 0, time.UTC),
				Hour:      0,
				Day:       4,
				Week:      44,
				Month:     11,
				Year:      2018,
				Weekday:   6,
			},
		},
		{
			name: "iso week rolls over before the calendar year",
			ts:   1546214400000,
			expected: TimeBucket{
				StartTime: time.Date(2018, time.December, 31, 0, 0, 0, 0, time.UTC),
				Hour:      0,
				Day:       31,
				Week:      1,
				Month:     12,
				Year:      2018,
				Weekday:   0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := NewTimeBucket(tt.ts)
			assert.True(t, tt.expected.StartTime.Equal(bucket.StartTime), "start time mismatch: %s", bucket.StartTime)
			bucket.StartTime = tt.expected.StartTime
			assert.Equal(t, tt.expected, bucket)
		})
	}
}

func TestNewTimeBucketIsDeterministic(t *testing.T) {
	assert.Equal(t, NewTimeBucket(1541105830796), NewTimeBucket(1541105830796))
}
