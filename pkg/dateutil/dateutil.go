package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// StartOfYear returns January 1st of year in UTC
func StartOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// AgeAt returns the age in year for someone who is currentAge in baseYear.
// Years before baseYear give a younger age.
func AgeAt(currentAge, baseYear, year int) int {
	return currentAge + (year - baseYear)
}
