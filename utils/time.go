package utils

import (
	"fmt"
	"sync"
	"time"
)

const dbDateTimeLayout = "2006-01-02 15:04:05"

var (
	shanghaiOnce sync.Once
	shanghaiLoc  *time.Location
)

// ShanghaiLocation returns the cached Asia/Shanghai location.
func ShanghaiLocation() *time.Location {
	shanghaiOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Shanghai")
		if err != nil {
			// Fallback to a fixed zone if the location database is unavailable.
			loc = time.FixedZone("Asia/Shanghai", 8*60*60)
		}
		shanghaiLoc = loc
	})
	return shanghaiLoc
}

// NowShanghai returns the current time in the Asia/Shanghai timezone.
func NowShanghai() time.Time {
	return time.Now().In(ShanghaiLocation())
}

// FormatDateTimeForDB formats a time for DATETIME columns.
func FormatDateTimeForDB(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(ShanghaiLocation()).Format(dbDateTimeLayout)
}

// ParseDBDate parses date strings retrieved from the database.
func ParseDBDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	loc := ShanghaiLocation()
	if ts, err := time.ParseInLocation(dbDateTimeLayout, value, loc); err == nil {
		return ts, nil
	}

	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.In(loc), nil
	}

	return time.Time{}, fmt.Errorf("unsupported db time format: %s", value)
}
