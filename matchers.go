package whence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// fields is the transient record a matcher extracts from the input. Any
// of the three has* flags may be false; the defaulter fills the rest.
type fields struct {
	format string

	year, month, day     int
	hour, min, sec, nsec int
	loc                  *time.Location

	hasDate bool
	hasYear bool
	hasTime bool
}

// matcher recognizes one format family: a shape regexp plus a builder
// that extracts and range-checks the fields. Matchers are pure and hold
// no state beyond their compiled shape.
type matcher struct {
	name  string
	shape *regexp.Regexp
	build func(sub []string) (*fields, error)
}

// errDecline makes a builder bail out as if the shape had never matched,
// so the recognizer moves on to the next matcher. Used for unknown zone
// abbreviations and unknown month names.
var errDecline = errors.New("decline")

// run applies the matcher to the trimmed input. ok is false when the
// shape does not match or the builder declined. A non-nil error means the
// shape matched but the fields are out of range: the matcher has
// committed and the recognizer must not fall through.
func (m *matcher) run(datestr string) (f *fields, ok bool, err error) {
	sub := m.shape.FindStringSubmatch(datestr)
	if sub == nil {
		return nil, false, nil
	}
	f, err = m.build(sub)
	if errors.Is(err, errDecline) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &InvalidError{Format: m.name, Reason: err.Error()}
	}
	f.format = m.name
	return f, true, nil
}

// Shared shape fragments. reZone matches any plausible zone token; the
// builder decides whether it is a known abbreviation, a numeric offset,
// or grounds for declining.
const (
	reZone = `([Zz]|[A-Za-z]{2,5}|[+-][0-9]{2}(?::?[0-9]{2})?)`
	reAmPm = `([AaPp][Mm])?`
	reFrac = `(?:\.([0-9]+))?`
)

// formats is the ordered dispatch table. Order matters: several shapes
// overlap, and the first matcher whose shape accepts the input wins.
// Later entries must not accept anything an earlier entry accepts.
var formats = []*matcher{
	{
		// 1511648546, 1620021848429, -1314
		name:  "unix-timestamp",
		shape: regexp.MustCompile(`^(-?)([0-9]+)$`),
		build: func(sub []string) (*fields, error) {
			v, err := strconv.ParseInt(sub[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("timestamp %s out of range", sub[0])
			}
			var t time.Time
			switch n := len(sub[2]); {
			case n <= 10:
				t = time.Unix(v, 0)
			case n <= 13:
				t = time.UnixMilli(v)
			case n <= 16:
				t = time.UnixMicro(v)
			default:
				t = time.Unix(0, v)
			}
			return absolute(t), nil
		},
	},
	{
		// 2021-05-01T01:17:02.604456Z, 2009-08-12T22:15:09-07:00
		name:  "rfc3339",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})[Tt]([0-9]{2}):([0-9]{2}):([0-9]{2})` + reFrac + `(?:([Zz])|([+-][0-9]{2}):([0-9]{2}))?$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if sub[8] != "" {
				f.loc = time.UTC
			} else if sub[9] != "" {
				loc, err := zoneFromToken(sub[9] + ":" + sub[10])
				if err != nil {
					return nil, err
				}
				f.loc = loc
			}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], "")
		},
	},
	{
		// Wed, 02 Jun 2021 06:31:39 GMT
		name:  "rfc2822",
		shape: regexp.MustCompile(`^(?:[A-Za-z]{3,9},\s*)?([0-9]{1,2})\s+([A-Za-z]{3,9})\.?\s+([0-9]{4}|[0-9]{2})\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s+` + reZone + `$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[2])
			if err != nil {
				return nil, err
			}
			loc, err := zoneFromToken(sub[7])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			if err := f.setDate(yearOf(sub[3]), mo, number(sub[1])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], "", "")
		},
	},
	{
		// 2019-11-29 08:08:05-08, 2017-07-19 03:21:51+00:00
		name:  "postgres",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})\s+([0-9]{2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `([+-][0-9]{2}(?::?[0-9]{2})?)$`),
		build: func(sub []string) (*fields, error) {
			loc, err := zoneFromToken(sub[8])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], "")
		},
	},
	{
		// 2021-04-30 21:14:10.052282, 2014-04-26 05:24:37 PM
		name:  "ymd-hms",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `\s*` + reAmPm + `$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], sub[8])
		},
	},
	{
		// 2017-11-25 13:31:15 PST, 2014-04-26 13:13:43 +0800
		name:  "ymd-hms-zone",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `\s*` + reZone + `$`),
		build: func(sub []string) (*fields, error) {
			loc, err := zoneFromToken(sub[8])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], "")
		},
	},
	{
		// 2021-02-21
		name:  "ymd",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			return f, f.setDate(number(sub[1]), number(sub[2]), number(sub[3]))
		},
	},
	{
		// 2021-02-21 PST, 2020-07-20+08:00
		name:  "ymd-zone",
		shape: regexp.MustCompile(`^([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})\s*` + reZone + `$`),
		build: func(sub []string) (*fields, error) {
			loc, err := zoneFromToken(sub[4])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			return f, f.setDate(number(sub[1]), number(sub[2]), number(sub[3]))
		},
	},
	{
		// 01:06:06, 4:00pm
		name:  "hms",
		shape: regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s*` + reAmPm + `$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			return f, f.setClock(sub[1], sub[2], sub[3], "", sub[4])
		},
	},
	{
		// 01:06:06 PST, 4:00pm PST
		name:  "hms-zone",
		shape: regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s*` + reAmPm + `\s+` + reZone + `$`),
		build: func(sub []string) (*fields, error) {
			loc, err := zoneFromToken(sub[5])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			return f, f.setClock(sub[1], sub[2], sub[3], "", sub[4])
		},
	},
	{
		// May 6 at 9:24 PM, May 27 02:45:27 (year defaults to current)
		name:  "month-day-time",
		shape: regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+([0-9]{1,2})\s+(?:[Aa][Tt]\s+)?([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s*` + reAmPm + `$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[1])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			if err := f.setDate(0, mo, number(sub[2])); err != nil {
				return nil, err
			}
			f.hasYear = false
			return f, f.setClock(sub[3], sub[4], sub[5], "", sub[6])
		},
	},
	{
		// May 8, 2009 5:57:51 PM; September 17, 2012, 10:10:09
		name:  "month-day-year-time",
		shape: regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+([0-9]{1,2}),\s+([0-9]{4}|[0-9]{2}),?\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s*` + reAmPm + `$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[1])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			if err := f.setDate(yearOf(sub[3]), mo, number(sub[2])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], "", sub[7])
		},
	},
	{
		// May 26, 2021, 12:49 AM PDT; September 17, 2012 at 10:09am PST
		name:  "month-day-year-time-zone",
		shape: regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+([0-9]{1,2}),?\s+([0-9]{4}),?\s+(?:[Aa][Tt]\s+)?([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?\s*` + reAmPm + `\s+` + reZone + `$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[1])
			if err != nil {
				return nil, err
			}
			loc, err := zoneFromToken(sub[8])
			if err != nil {
				return nil, err
			}
			f := &fields{loc: loc}
			if err := f.setDate(number(sub[3]), mo, number(sub[2])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], "", sub[7])
		},
	},
	{
		// 2021-Feb-21
		name:  "year-month-day",
		shape: regexp.MustCompile(`^([0-9]{4})-([A-Za-z]{3,9})\.?-([0-9]{1,2})$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[2])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			return f, f.setDate(number(sub[1]), mo, number(sub[3]))
		},
	},
	{
		// May 25, 2021; oct 7, '70
		name:  "month-day-year",
		shape: regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+([0-9]{1,2}),\s+'?([0-9]{4}|[0-9]{2})$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[1])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			return f, f.setDate(yearOf(sub[3]), mo, number(sub[2]))
		},
	},
	{
		// 12 Feb 2006, 19:17; 14 May 2019 19:11:40.164
		name:  "day-month-year-time",
		shape: regexp.MustCompile(`^([0-9]{1,2})\s+([A-Za-z]{3,9})\.?\s+([0-9]{4}|[0-9]{2}),?\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[2])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			if err := f.setDate(yearOf(sub[3]), mo, number(sub[1])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], "")
		},
	},
	{
		// 7 oct 70, 03 February 2013
		name:  "day-month-year",
		shape: regexp.MustCompile(`^([0-9]{1,2})\s+([A-Za-z]{3,9})\.?\s+([0-9]{4}|[0-9]{2})$`),
		build: func(sub []string) (*fields, error) {
			mo, err := monthByName(sub[2])
			if err != nil {
				return nil, err
			}
			f := &fields{}
			return f, f.setDate(yearOf(sub[3]), mo, number(sub[1]))
		},
	},
	{
		// 3/31/2014, 8/8/65 12:00 AM, 03/19/2012 10:11:59.3186369
		name:  "slash-mdy",
		shape: regexp.MustCompile(`^([0-9]{1,2})/([0-9]{1,2})/([0-9]{4}|[0-9]{2})(?:\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `\s*` + reAmPm + `)?$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if err := f.setDate(yearOf(sub[3]), number(sub[1]), number(sub[2])); err != nil {
				return nil, err
			}
			if sub[4] == "" {
				return f, nil
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], sub[8])
		},
	},
	{
		// 2014/4/8 22:05, 2014/03/31
		name:  "slash-ymd",
		shape: regexp.MustCompile(`^([0-9]{4})/([0-9]{1,2})/([0-9]{1,2})(?:\s+([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?` + reFrac + `\s*` + reAmPm + `)?$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			if sub[4] == "" {
				return f, nil
			}
			return f, f.setClock(sub[4], sub[5], sub[6], sub[7], sub[8])
		},
	},
	{
		// 3.31.2014, 08.21.71, 2014.03.30, 2014.03
		name:  "dot-date",
		shape: regexp.MustCompile(`^(?:([0-9]{1,2})\.([0-9]{1,2})\.([0-9]{4}|[0-9]{2})|([0-9]{4})\.([0-9]{1,2})(?:\.([0-9]{1,2}))?)$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if sub[4] != "" {
				day := 1
				if sub[6] != "" {
					day = number(sub[6])
				}
				return f, f.setDate(number(sub[4]), number(sub[5]), day)
			}
			return f, f.setDate(yearOf(sub[3]), number(sub[1]), number(sub[2]))
		},
	},
	{
		// 171113 14:14:20 (mysql server log)
		name:  "mysql-log",
		shape: regexp.MustCompile(`^([0-9]{2})([0-9]{2})([0-9]{2})\s+([0-9]{1,2}):([0-9]{2}):([0-9]{2})$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if err := f.setDate(yearOf(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			return f, f.setClock(sub[4], sub[5], sub[6], "", "")
		},
	},
	{
		// 2014年04月08日11时25分18秒, 2014年04月08日
		name:  "chinese-ymd",
		shape: regexp.MustCompile(`^([0-9]{4})年([0-9]{2})月([0-9]{2})日(?:([0-9]{2})时([0-9]{2})分([0-9]{2})秒)?$`),
		build: func(sub []string) (*fields, error) {
			f := &fields{}
			if err := f.setDate(number(sub[1]), number(sub[2]), number(sub[3])); err != nil {
				return nil, err
			}
			if sub[4] == "" {
				return f, nil
			}
			return f, f.setClock(sub[4], sub[5], sub[6], "", "")
		},
	},
}

// setDate range-checks and stores the date part. Calendar validity
// beyond field ranges (February 30) is the normalizer's job.
func (f *fields) setDate(y, mo, d int) error {
	if mo < 1 || mo > 12 {
		return fmt.Errorf("month %d out of range", mo)
	}
	if d < 1 || d > 31 {
		return fmt.Errorf("day %d out of range", d)
	}
	f.year, f.month, f.day = y, mo, d
	f.hasDate, f.hasYear = true, true
	return nil
}

// setClock range-checks and stores the time part. mi, ss and frac come
// straight from submatches and may be empty.
func (f *fields) setClock(hh, mi, ss, frac, ampm string) error {
	h, err := clockHour(number(hh), ampm)
	if err != nil {
		return err
	}
	m, s := number(mi), number(ss)
	if m > 59 {
		return fmt.Errorf("minute %d out of range", m)
	}
	if s > 59 {
		return fmt.Errorf("second %d out of range", s)
	}
	f.hour, f.min, f.sec, f.nsec = h, m, s, fracNanos(frac)
	f.hasTime = true
	return nil
}

// clockHour maps a 12-hour clock with am/pm onto 0-23. 12 AM is 00, 12
// PM is 12.
func clockHour(h int, ampm string) (int, error) {
	if ampm == "" {
		if h > 23 {
			return 0, fmt.Errorf("hour %d out of range", h)
		}
		return h, nil
	}
	if h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %d out of range on a 12-hour clock", h)
	}
	if h == 12 {
		h = 0
	}
	if ampm[0] == 'p' || ampm[0] == 'P' {
		h += 12
	}
	return h, nil
}

// fracNanos converts a fractional-second digit string to nanoseconds.
// Digits beyond the ninth are truncated, not rounded.
func fracNanos(frac string) int {
	if frac == "" {
		return 0
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	ns := number(frac)
	for i := len(frac); i < 9; i++ {
		ns *= 10
	}
	return ns
}

// number converts a digit-only submatch; the empty string is 0.
func number(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// yearOf resolves a captured year, applying the POSIX two-digit pivot:
// 00-68 land in 2000-2068 and 69-99 in 1969-1999.
func yearOf(s string) int {
	y := number(s)
	if len(s) == 2 {
		if y <= 68 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// monthByName accepts full English month names and the standard
// three-letter abbreviations, case-insensitive. Anything else declines
// the match.
func monthByName(name string) (int, error) {
	if m, ok := monthsByName[strings.ToLower(name)]; ok {
		return int(m), nil
	}
	return 0, errDecline
}

// absolute turns an already-absolute instant into fully populated fields
// so it flows through the same defaulter/normalizer path as everything
// else.
func absolute(t time.Time) *fields {
	t = t.UTC()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return &fields{
		year: y, month: int(mo), day: d,
		hour: h, min: mi, sec: s, nsec: t.Nanosecond(),
		loc:     time.UTC,
		hasDate: true, hasYear: true, hasTime: true,
	}
}
