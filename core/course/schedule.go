package course

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays are the teaching days, in timetable order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var (
	ErrInvalidDay      = errors.New("day must be one of Monday, Tuesday, Wednesday, Thursday or Friday")
	ErrInvalidClock    = errors.New("time must be formatted as HH:MM")
	ErrInvalidRange    = errors.New("time range must be formatted as HH:MM-HH:MM")
	ErrEmptyInterval   = errors.New("start time must be before end time")
	ErrOutsideTeaching = errors.New("schedule is outside of teaching hours")
)

// ParseWeekday accepts full day names and their three letter abbreviations, in any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return "", ErrInvalidDay
	}
	for _, d := range Weekdays {
		name := strings.ToLower(string(d))
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return "", ErrInvalidDay
}

// Index is the position of d in Weekdays, -1 if d is not a teaching day.
func (d Weekday) Index() int {
	for i, wd := range Weekdays {
		if wd == d {
			return i
		}
	}
	return -1
}

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses H:MM or HH:MM (24h).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, errors.Wrapf(ErrInvalidClock, "%q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, errors.Wrapf(ErrInvalidClock, "%q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.Wrapf(ErrInvalidClock, "%q", s)
	}
	return Clock(h*60 + m), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustParseClock is like ParseClock but panics on error.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseTimeRange parses "HH:MM-HH:MM"; blanks around the dash are ignored.
func ParseTimeRange(s string) (Clock, Clock, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrInvalidRange, "%q", s)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

type Schedule struct {
	Day   Weekday `json:"day" yaml:"day"`
	Start Clock   `json:"start" yaml:"start"`
	End   Clock   `json:"end" yaml:"end"`
}

// NewSchedule parses day, start and end. It does not check teaching hours.
func NewSchedule(day, start, end string) (Schedule, error) {
	d, err := ParseWeekday(day)
	if err != nil {
		return Schedule{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return Schedule{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Schedule{}, err
	}
	sch := Schedule{Day: d, Start: s, End: e}
	if !sch.Valid() {
		return Schedule{}, errors.Wrapf(ErrEmptyInterval, "%s", sch)
	}
	return sch, nil
}

// Valid reports whether the interval is not empty.
func (s Schedule) Valid() bool { return s.Start < s.End }

// Conflicts reports whether s and other overlap on the same day.
// Intervals are half-open: a class ending at 10:00 does not conflict with one starting at 10:00.
func (s Schedule) Conflicts(other Schedule) bool {
	if s.Day != other.Day || !s.Valid() || !other.Valid() {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// Before orders schedules by weekday then start time.
func (s Schedule) Before(other Schedule) bool {
	if di, dj := s.Day.Index(), other.Day.Index(); di != dj {
		return di < dj
	}
	return s.Start < other.Start
}

func (s Schedule) TimeRange() string { return s.Start.String() + "-" + s.End.String() }

func (s Schedule) String() string { return string(s.Day) + " " + s.TimeRange() }

// TeachingHours bounds every course schedule.
type TeachingHours struct {
	Start Clock
	End   Clock
}

var DefaultTeachingHours = TeachingHours{Start: MustParseClock("08:00"), End: MustParseClock("17:50")}

// Allows reports whether s is a weekday, non-empty interval within the teaching hours.
func (h TeachingHours) Allows(s Schedule) bool {
	return s.Day.Index() >= 0 && s.Valid() && s.Start >= h.Start && s.End <= h.End
}

// Check returns a descriptive error when s is not allowed.
func (h TeachingHours) Check(s Schedule) error {
	switch {
	case s.Day.Index() < 0:
		return ErrInvalidDay
	case !s.Valid():
		return errors.Wrapf(ErrEmptyInterval, "%s", s)
	case !h.Allows(s):
		return errors.Wrapf(ErrOutsideTeaching, "%s not within %s-%s", s, h.Start, h.End)
	}
	return nil
}
