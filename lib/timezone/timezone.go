package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Dublin")
	if err != nil {
		panic(err)
	}
}

// force timezone to be Irish time regardless of where the process runs,
// fixture dates from the upstream are calendar dates in local Irish time
// and shifting them through another zone moves matches across days
func Now() time.Time {
	return time.Now().In(Location)
}

// Midnight truncates a time down to 00:00 on the same calendar day,
// keeping its location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Date builds a calendar day at midnight in the pinned location.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location)
}
