package rental

import "time"

// DurationType is the billing-period granularity used to derive a rental's
// end date.
type DurationType string

const (
	DurationWeekly   DurationType = "WEEKLY"
	DurationMonthly  DurationType = "MONTHLY"
	DurationSemester DurationType = "SEMESTER"
	DurationYearly   DurationType = "YEARLY"
)

// IsValid returns true if the duration type is recognized.
func (d DurationType) IsValid() bool {
	switch d {
	case DurationWeekly, DurationMonthly, DurationSemester, DurationYearly:
		return true
	}
	return false
}

// Days returns the fixed day offset for this duration type. Offsets are
// exact day counts, never calendar-month arithmetic; an unrecognized type
// falls back to the monthly offset so the calculation stays total.
func (d DurationType) Days() int {
	switch d {
	case DurationWeekly:
		return 7
	case DurationMonthly:
		return 30
	case DurationSemester:
		return 180
	case DurationYearly:
		return 365
	default:
		return 30
	}
}

// PeriodEnd derives the rental end date from a start date and duration type.
func PeriodEnd(start time.Time, durationType DurationType) time.Time {
	return start.AddDate(0, 0, durationType.Days())
}

// RentalPeriod is a value object describing the rented time span. EndDate is
// always derived from StartDate and DurationType; it is stored only for
// display and querying.
type RentalPeriod struct {
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	DurationType DurationType `json:"duration_type"`
}

// NewRentalPeriod builds a period with the end date derived from the start.
func NewRentalPeriod(start time.Time, durationType DurationType) RentalPeriod {
	return RentalPeriod{
		StartDate:    start,
		EndDate:      PeriodEnd(start, durationType),
		DurationType: durationType,
	}
}
