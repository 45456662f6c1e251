package models

import (
	"fmt"
	"time"
)

// TermHalf is one of the two halves of the academic year.
type TermHalf string

const (
	// TermFirstHalf runs from March through August.
	TermFirstHalf TermHalf = "前期"
	// TermSecondHalf runs from September through February.
	TermSecondHalf TermHalf = "後期"
)

// CurrentHalf returns the half of the academic year containing t.
func CurrentHalf(t time.Time) TermHalf {
	if m := t.Month(); m >= time.March && m <= time.August {
		return TermFirstHalf
	}
	return TermSecondHalf
}

// TermLabel formats a term label such as "2024-前期".
func TermLabel(year int, half TermHalf) string {
	return fmt.Sprintf("%d-%s", year, half)
}

// TermLabels lists every term label from the enrollment year up to and including the term containing now.
// The calendar year of now is used as-is, matching how students label their terms.
func TermLabels(enrollmentYear int, now time.Time) []string {
	currentYear := now.Year()
	if enrollmentYear > currentYear {
		return []string{}
	}
	labels := make([]string, 0, (currentYear-enrollmentYear+1)*2)
	for year := enrollmentYear; year <= currentYear; year++ {
		labels = append(labels, TermLabel(year, TermFirstHalf))
		if year < currentYear || CurrentHalf(now) == TermSecondHalf {
			labels = append(labels, TermLabel(year, TermSecondHalf))
		}
	}
	return labels
}
