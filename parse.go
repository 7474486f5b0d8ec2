// Package whence parses date/time strings of unknown format into an
// absolute UTC instant.
//
// Given a string in any of the recognized format families, Parse detects
// the format, parses the fields, fills whatever is missing (zone, date or
// time of day) from caller defaults, and returns a time.Time in time.UTC
// with nanosecond precision. The set of recognized formats is closed; see
// the matcher table in matchers.go.
package whence

import (
	"strings"
	"time"
	"unicode/utf8"
)

// nowFunc is the single clock source consulted for "today", the current
// year and the current time of day. Replaced in tests.
var nowFunc = time.Now

// TimeOfDay is a wall-clock time with no date attached. It supplies the
// time for date-only inputs such as "2021-10-09".
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// Parser parses datetime strings with a configurable default location,
// default time of day and clock. The zero value parses with location UTC,
// the current time of day, and the real clock.
//
// Parsers are stateless and safe for concurrent use.
type Parser struct {
	// Loc resolves inputs that carry no timezone of their own. A zone
	// embedded in the input always wins over Loc. Nil means time.UTC.
	Loc *time.Location

	// DefaultTime supplies the time of day for date-only inputs. Nil
	// means the current time of day in the resolved location.
	DefaultTime *TimeOfDay

	// Now is the clock used for "today", the current year and the
	// current time of day. Nil means time.Now.
	Now func() time.Time
}

// Parse runs the input through the ordered matcher table and returns the
// parsed instant in UTC. It returns *UnrecognizedError when no matcher
// accepts the input, and *InvalidError when a matcher accepts the shape
// but the fields do not form a valid instant.
func (p *Parser) Parse(datestr string) (time.Time, error) {
	datestr = strings.TrimSpace(datestr)
	if datestr == "" || !utf8.ValidString(datestr) {
		return time.Time{}, &UnrecognizedError{Input: datestr}
	}
	for _, m := range formats {
		f, ok, err := m.run(datestr)
		if err != nil {
			return time.Time{}, err
		}
		if !ok {
			continue
		}
		return p.resolve(f)
	}
	return time.Time{}, &UnrecognizedError{Input: datestr}
}

func (p *Parser) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return nowFunc()
}

func (p *Parser) location() *time.Location {
	if p.Loc != nil {
		return p.Loc
	}
	return time.UTC
}

// resolve fills the fields a matcher left unset, then normalizes the
// wall clock into a UTC instant. A zone parsed from the input wins over
// the parser's default location.
func (p *Parser) resolve(f *fields) (time.Time, error) {
	loc := f.loc
	if loc == nil {
		loc = p.location()
	}
	now := p.clock().In(loc)

	if !f.hasDate {
		y, mo, d := now.Date()
		f.year, f.month, f.day = y, int(mo), d
	} else if !f.hasYear {
		f.year = now.Year()
	}
	if !f.hasTime {
		if p.DefaultTime != nil {
			f.hour = p.DefaultTime.Hour
			f.min = p.DefaultTime.Minute
			f.sec = p.DefaultTime.Second
			f.nsec = p.DefaultTime.Nanosecond
		} else {
			f.hour, f.min, f.sec = now.Clock()
			f.nsec = now.Nanosecond()
		}
	}
	return normalize(f, loc)
}

// normalize interprets the filled wall clock in loc and converts it to
// UTC. Calendar impossibilities (2021-02-30) and wall clocks that fall in
// a DST spring-forward gap do not survive the round trip through
// time.Date and are rejected. A wall clock repeated by a DST fall-back
// resolves to the earlier of the two instants.
func normalize(f *fields, loc *time.Location) (time.Time, error) {
	t := time.Date(f.year, time.Month(f.month), f.day, f.hour, f.min, f.sec, f.nsec, loc)
	if !sameWall(t, f) {
		if t.Year() != f.year || t.Month() != time.Month(f.month) || t.Day() != f.day {
			return time.Time{}, &InvalidError{Format: f.format, Reason: "impossible calendar date"}
		}
		return time.Time{}, &InvalidError{Format: f.format, Reason: "nonexistent local time"}
	}
	if alt := t.Add(-time.Hour); sameWall(alt.In(loc), f) {
		t = alt
	}
	return t.In(time.UTC), nil
}

func sameWall(t time.Time, f *fields) bool {
	return t.Year() == f.year &&
		t.Month() == time.Month(f.month) &&
		t.Day() == f.day &&
		t.Hour() == f.hour &&
		t.Minute() == f.min &&
		t.Second() == f.sec
}

// Parse parses datestr with default zone UTC and the current UTC time of
// day for date-only inputs.
func Parse(datestr string) (time.Time, error) {
	p := Parser{}
	return p.Parse(datestr)
}

// ParseIn is like Parse but resolves inputs without a timezone in loc,
// and uses the current time of day in loc for date-only inputs.
func ParseIn(datestr string, loc *time.Location) (time.Time, error) {
	p := Parser{Loc: loc}
	return p.Parse(datestr)
}

// ParseWith is like ParseIn but uses the given time of day, rather than
// the current one, for date-only inputs.
func ParseWith(datestr string, loc *time.Location, at TimeOfDay) (time.Time, error) {
	p := Parser{Loc: loc, DefaultTime: &at}
	return p.Parse(datestr)
}

// MustParse is like Parse but panics on error.
func MustParse(datestr string) time.Time {
	t, err := Parse(datestr)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Time wraps time.Time so that any recognized datetime string can be
// decoded by encoding packages that understand encoding.TextUnmarshaler:
//
//	var ts whence.Time
//	err := json.Unmarshal([]byte(`"May 02, 2021 15:51:31 UTC"`), &ts)
type Time struct {
	time.Time
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (t *Time) UnmarshalText(text []byte) error {
	ts, err := Parse(string(text))
	if err != nil {
		return err
	}
	t.Time = ts
	return nil
}

// UnmarshalJSON accepts a JSON string in any recognized format. Without
// this the UnmarshalJSON promoted from the embedded time.Time would win
// and only RFC 3339 would decode.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &UnrecognizedError{Input: s}
	}
	return t.UnmarshalText([]byte(s[1 : len(s)-1]))
}
