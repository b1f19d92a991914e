package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// spreadsheetEpoch is day zero of spreadsheet serial dates
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const msPerDay = 24 * 60 * 60 * 1000

// FromSerial converts a spreadsheet serial date (days since 1899-12-30,
// fractional part = time of day) into a UTC time.
func FromSerial(serial float64) time.Time {
	ms := math.Round(serial * msPerDay)
	return spreadsheetEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// ToSerial is the inverse of FromSerial
func ToSerial(t time.Time) float64 {
	return float64(t.UTC().Sub(spreadsheetEpoch).Milliseconds()) / msPerDay
}

var dateLayouts = []string{
	DateLayout,
	DateTimeLayout,
	time.RFC3339,
	"1/2/2006",
}

// ParseSeedDate accepts either a serial day number or one of the common
// textual date layouts that spreadsheet exports produce.
func ParseSeedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return FromSerial(serial), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
