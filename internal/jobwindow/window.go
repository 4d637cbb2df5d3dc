// Package jobwindow parses posting dates and derives a job's activity
// window relative to a reference instant.
package jobwindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

// Window is the derived activity state of a job.
type Window string

const (
	Upcoming Window = "upcoming"
	Active   Window = "active"
	Expired  Window = "expired"
)

// Lookahead is the horizon used by ending-soon / starting-soon selections.
const Lookahead = 7 * 24 * time.Hour

const (
	minYear = 2000
	maxYear = 2100
)

// AcceptedFormats lists the date shapes ParseDate understands.
var AcceptedFormats = []string{"DD-MM-YYYY", "YYYY-MM-DD"}

// InvalidDateError reports an unparseable or out-of-range date.
type InvalidDateError struct {
	Input   string
	Formats []string
	Reason  string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date format %q (%s): use %s",
		e.Input, e.Reason, strings.Join(e.Formats, " or "))
}

// Is makes errors.Is(err, domain.ErrValidation) match.
func (e *InvalidDateError) Is(target error) bool {
	return target == domain.ErrValidation
}

func invalidDate(input, reason string) error {
	return &InvalidDateError{Input: input, Formats: AcceptedFormats, Reason: reason}
}

// ParseDate parses DD-MM-YYYY, DD/MM/YYYY, YYYY-MM-DD or YYYY/MM/DD into a
// UTC midnight instant. The four-digit field decides the order.
func ParseDate(input string) (time.Time, error) {
	s := strings.Trim(strings.TrimSpace(input), `"'`)
	s = strings.TrimSpace(s)

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 || strings.Count(s, "-")+strings.Count(s, "/") != 2 {
		return time.Time{}, invalidDate(input, "expected three fields")
	}

	var dayStr, monthStr, yearStr string
	switch {
	case len(parts[0]) == 4:
		yearStr, monthStr, dayStr = parts[0], parts[1], parts[2]
	case len(parts[2]) == 4:
		dayStr, monthStr, yearStr = parts[0], parts[1], parts[2]
	default:
		return time.Time{}, invalidDate(input, "no four-digit year")
	}

	day, err := atoi(dayStr, 2)
	if err != nil {
		return time.Time{}, invalidDate(input, "day is not a number")
	}
	month, err := atoi(monthStr, 2)
	if err != nil {
		return time.Time{}, invalidDate(input, "month is not a number")
	}
	year, err := atoi(yearStr, 4)
	if err != nil {
		return time.Time{}, invalidDate(input, "year is not a number")
	}

	if day < 1 || day > 31 {
		return time.Time{}, invalidDate(input, "day out of range")
	}
	if month < 1 || month > 12 {
		return time.Time{}, invalidDate(input, "month out of range")
	}
	if year < minYear || year > maxYear {
		return time.Time{}, invalidDate(input, "year out of range")
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31-02 into March
	if t.Day() != day {
		return time.Time{}, invalidDate(input, "day does not exist in month")
	}
	return t, nil
}

// atoi accepts 1..maxLen ASCII digits only.
func atoi(s string, maxLen int) (int, error) {
	if s == "" || len(s) > maxLen {
		return 0, fmt.Errorf("bad length")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a digit")
		}
	}
	return strconv.Atoi(s)
}

// Classify derives the job's window at now.
func Classify(job *domain.Job, now time.Time) Window {
	switch {
	case now.Before(job.StartDate):
		return Upcoming
	case now.After(job.EndDate):
		return Expired
	default:
		return Active
	}
}

// IsOpen reports whether a job is listed as active: status tag "active"
// and not expired. Upcoming jobs count as open.
func IsOpen(job *domain.Job, now time.Time) bool {
	return job.IsActiveStatus() && Classify(job, now) != Expired
}

// EndingSoon reports whether EndDate falls in [now, now+Lookahead].
func EndingSoon(job *domain.Job, now time.Time) bool {
	return within(job.EndDate, now)
}

// StartingSoon reports whether StartDate falls in [now, now+Lookahead].
func StartingSoon(job *domain.Job, now time.Time) bool {
	return within(job.StartDate, now)
}

func within(t, now time.Time) bool {
	return !t.Before(now) && !t.After(now.Add(Lookahead))
}
