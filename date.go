package fat12

import (
	"time"
)

// ParseDateTime converts the date and time stamps of a directory entry into a time.Time in UTC.
//
// The date is relative to the MS-DOS epoch of 01/01/1980:
//
//	Bits 0-4: Day of month, 1-31.
//	Bits 5-8: Month of year, 1-12.
//	Bits 9-15: Count of years from 1980, 0-127 (1980-2107).
//
// The time has a granularity of 2 seconds:
//
//	Bits 0-4: 2-second count, 0-29 (0-58 seconds).
//	Bits 5-10: Minutes, 0-59.
//	Bits 11-15: Hours, 0-23.
//
// A day or month of 0 is invalid, in which case time.Time{} is returned so that time.Time.IsZero() can be used.
// Out of range values for month, hours, minutes or seconds are normalized by time.Date,
// but the time of day never exceeds 23:59:59.
func ParseDateTime(date uint16, tm uint16) time.Time {
	day := int(date & 0x1F)
	month := int(date >> 5 & 0x0F)
	year := 1980 + int(date>>9)

	if day == 0 || month == 0 {
		return time.Time{}
	}

	seconds := int(tm&0x1F) * 2
	minutes := int(tm >> 5 & 0x3F)
	hours := int(tm >> 11)

	clock := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if clock >= 24*time.Hour {
		clock = 24*time.Hour - time.Second
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Add(clock)
}
