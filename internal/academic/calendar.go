package academic

import (
	"errors"
	"fmt"
	"time"
)

// DatePattern is the only accepted textual date format (DD/MM/YYYY HH:MM).
const DatePattern = "02/01/2006 15:04"

// ErrInvalidDate is returned by ParseDate for any input that does not
// match DatePattern exactly.
var ErrInvalidDate = errors.New("invalid date format")

// gradeAnchor is the start of grade 1: September 1, 2021 00:00 MSK.
const gradeAnchor int64 = 1630443600

var (
	// Semester lengths and the holiday gaps after each of them, in days.
	semesterDays = []int{17 * 7, 24 * 7}
	holidayDays  = []int{2 * 7, 0}

	weekdayNames = []string{
		"Понедельник", "Вторник", "Среда", "Четверг",
		"Пятница", "Суббота", "Воскресенье",
	}
	monthNames = []string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	}
)

// Slice is a half-open [Start, End) time interval.
type Slice struct {
	Start time.Time
	End   time.Time
}

// Calendar maps wall-clock time to academic weekdays, semesters and
// grades. All arithmetic happens in a fixed UTC+3 zone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

func NewCalendar() *Calendar {
	c := &Calendar{loc: time.FixedZone("MSK", 3*60*60)}
	c.now = func() time.Time { return time.Now().In(c.loc) }
	return c
}

// Now returns the current time in the calendar's zone.
func (c *Calendar) Now() time.Time { return c.now() }

// Timestamp returns the current epoch seconds.
func (c *Calendar) Timestamp() int64 { return c.now().Unix() }

// Location returns the fixed UTC+3 zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Weekday returns the ISO weekday of t: Monday = 1 .. Sunday = 7.
func (c *Calendar) Weekday(t time.Time) int {
	wd := int(t.In(c.loc).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekdayName returns the Russian name for an ISO weekday (1..7).
func (c *Calendar) WeekdayName(weekday int) string {
	return weekdayNames[weekday-1]
}

// MonthName returns the Russian name for a month (1..12).
func (c *Calendar) MonthName(month int) string {
	return monthNames[month-1]
}

// ParseDate parses s against DatePattern in the calendar's zone.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DatePattern, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t with DatePattern in the calendar's zone.
func (c *Calendar) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DatePattern)
}

// FormatTimestamp renders epoch seconds with DatePattern.
func (c *Calendar) FormatTimestamp(unix int64) string {
	return c.FormatDate(time.Unix(unix, 0))
}

// FromTimestamp converts epoch seconds to a time in the calendar's zone.
func (c *Calendar) FromTimestamp(unix int64) time.Time {
	return time.Unix(unix, 0).In(c.loc)
}

// MonthDays returns the number of days in the given month.
func (c *Calendar) MonthDays(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, c.loc).Day()
}

// DayStart returns local midnight of the day containing t.
func (c *Calendar) DayStart(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// WeekStart returns local midnight of the Monday of the week containing t.
func (c *Calendar) WeekStart(t time.Time) time.Time {
	start := c.DayStart(t)
	return start.AddDate(0, 0, -(c.Weekday(start) - 1))
}

// MonthStart returns local midnight of the first day of the month containing t.
func (c *Calendar) MonthStart(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.loc)
}

// DayRange returns the [start, end) interval of the day containing t.
func (c *Calendar) DayRange(t time.Time) Slice {
	start := c.DayStart(t)
	return Slice{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekRange returns the [start, end) interval of the week containing t.
func (c *Calendar) WeekRange(t time.Time) Slice {
	start := c.WeekStart(t)
	return Slice{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthRange returns the [start, end) interval of the month containing t.
func (c *Calendar) MonthRange(t time.Time) Slice {
	start := c.MonthStart(t)
	return Slice{Start: start, End: start.AddDate(0, 0, c.MonthDays(start.Year(), start.Month()))}
}

// GraduateRange returns the academic year containing t: local midnight
// of September 1 of t's calendar year, through the end of the last
// semester including the holiday gaps between semesters.
func (c *Calendar) GraduateRange(t time.Time) Slice {
	t = t.In(c.loc)
	start := time.Date(t.Year(), time.September, 1, 0, 0, 0, 0, c.loc)
	end := start
	for i, days := range semesterDays {
		end = end.AddDate(0, 0, days+holidayDays[i])
	}
	return Slice{Start: start, End: end}
}

// SemesterSlices returns one [start, end) interval per semester of the
// academic year containing t, walked cumulatively from the year start.
// Holiday gaps fall between consecutive slices and belong to neither.
func (c *Calendar) SemesterSlices(t time.Time) []Slice {
	yearStart := c.GraduateRange(t).Start
	slices := make([]Slice, 0, len(semesterDays))
	offset := 0
	for i, days := range semesterDays {
		start := yearStart.AddDate(0, 0, offset)
		slices = append(slices, Slice{Start: start, End: start.AddDate(0, 0, days)})
		offset += days + holidayDays[i]
	}
	return slices
}

// Semester returns the zero-based index of the semester containing t.
// The second result is false when t falls in a holiday gap or outside
// the academic year entirely.
func (c *Calendar) Semester(t time.Time) (int, bool) {
	ts := t.Unix()
	for i, sl := range c.SemesterSlices(t) {
		if ts >= sl.Start.Unix() && ts < sl.End.Unix() {
			return i, true
		}
	}
	return 0, false
}

// Grade returns the school year number of the academic year containing
// t, counted from the grade 1 anchor.
func (c *Calendar) Grade(t time.Time) int {
	start := c.GraduateRange(t).Start
	days := (start.Unix() - gradeAnchor) / (60 * 60 * 24)
	return int(days/365) + 1
}
