package whence

import (
	"fmt"
	"strings"
	"time"
)

// ZoneOffsets is the closed set of timezone abbreviations recognized
// inside input strings, mapped to UTC offsets in seconds east. An
// abbreviation always stands for the same fixed offset; it never tracks
// DST for a region. Growing this map is an API-visible change.
var ZoneOffsets = map[string]int{
	"Z":   0,
	"UT":  0,
	"UTC": 0,
	"GMT": 0,
	"WET": 0,

	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,

	"AKST": -9 * 3600,
	"AKDT": -8 * 3600,
	"HST":  -10 * 3600,
	"AST":  -4 * 3600,

	"BST":  1 * 3600,
	"CET":  1 * 3600,
	"WEST": 1 * 3600,
	"CEST": 2 * 3600,
	"EET":  2 * 3600,
	"EEST": 3 * 3600,
	"MSK":  3 * 3600,

	"HKT":  8 * 3600,
	"SGT":  8 * 3600,
	"AWST": 8 * 3600,
	"JST":  9 * 3600,
	"KST":  9 * 3600,
	"ACST": 9*3600 + 1800,
	"AEST": 10 * 3600,
	"AEDT": 11 * 3600,
	"NZST": 12 * 3600,
	"NZDT": 13 * 3600,
}

// zoneFromToken resolves a zone token from an input string: either a
// numeric offset (+08, -0800, +08:00) or an abbreviation from
// ZoneOffsets. An unknown abbreviation declines so the matcher behaves
// as if its shape had not matched; an out-of-range numeric offset is a
// field error.
func zoneFromToken(tok string) (*time.Location, error) {
	if tok[0] == '+' || tok[0] == '-' {
		return zoneFromOffset(tok)
	}
	name := strings.ToUpper(tok)
	off, ok := ZoneOffsets[name]
	if !ok {
		return nil, errDecline
	}
	if off == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(name, off), nil
}

func zoneFromOffset(tok string) (*time.Location, error) {
	sign := 1
	if tok[0] == '-' {
		sign = -1
	}
	rest := strings.Replace(tok[1:], ":", "", 1)
	hh := number(rest[:2])
	mm := 0
	if len(rest) > 2 {
		mm = number(rest[2:])
	}
	if hh > 23 || mm > 59 {
		return nil, fmt.Errorf("UTC offset %s out of range", tok)
	}
	off := sign * (hh*3600 + mm*60)
	if off == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(tok, off), nil
}
