package timezone

import (
	"fmt"
	"time"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Dhaka")
	if err != nil {
		Location = time.FixedZone("BST", 6*60*60)
	}
}

// force timezone to Dhaka, journey dates on the booking site are
// local to Bangladesh regardless of where the watcher is deployed.
func Now() time.Time {
	return time.Now().In(Location)
}

// JourneyDateLayout is the `doj` format the booking site expects, ex. 05-Jun-2025
const JourneyDateLayout = "02-Jan-2006"

// AlertDateLayout is how journey dates are written in alert emails, ex. Jun 5, 2025
const AlertDateLayout = "Jan 2, 2006"

func ParseJourneyDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(JourneyDateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse journey date %q: %w", s, err)
	}
	return t, nil
}

func FormatJourneyDate(t time.Time) string {
	return t.In(Location).Format(JourneyDateLayout)
}

// HumanJourneyDate renders a `doj` string as it reads in an alert, if the
// input cannot be parsed it is returned as-is.
func HumanJourneyDate(doj string) string {
	t, err := ParseJourneyDate(doj)
	if err != nil {
		return doj
	}
	return t.Format(AlertDateLayout)
}
