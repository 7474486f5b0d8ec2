package whence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZoneFromToken(t *testing.T) {
	for _, th := range []struct {
		in     string
		offset int
	}{
		{in: "-0800", offset: -8 * 3600},
		{in: "+10:00", offset: 10 * 3600},
		{in: "+08", offset: 8 * 3600},
		{in: "-05:30", offset: -(5*3600 + 1800)},
		{in: "Z", offset: 0},
		{in: "UTC", offset: 0},
		{in: "GMT", offset: 0},
		{in: "PST", offset: -8 * 3600},
		{in: "pst", offset: -8 * 3600},
		{in: "PDT", offset: -7 * 3600},
		{in: "EST", offset: -5 * 3600},
		{in: "BST", offset: 1 * 3600},
		{in: "AEST", offset: 10 * 3600},
	} {
		loc, err := zoneFromToken(th.in)
		assert.NoError(t, err, "for %q", th.in)
		_, offset := time.Date(2021, 1, 1, 0, 0, 0, 0, loc).Zone()
		assert.Equal(t, th.offset, offset, "wrong offset for %q", th.in)
	}
}

func TestZoneFromTokenUnknown(t *testing.T) {
	for _, in := range []string{"XYZT", "QQQ", "LMT", "foo"} {
		_, err := zoneFromToken(in)
		assert.Equal(t, errDecline, err, "expected decline for %q", in)
	}
}

func TestZoneFromTokenOutOfRange(t *testing.T) {
	for _, in := range []string{"+25", "-2400", "+08:75"} {
		_, err := zoneFromToken(in)
		assert.Error(t, err, "for %q", in)
		assert.NotEqual(t, errDecline, err, "numeric offsets fail instead of declining: %q", in)
	}
}

func TestZoneOffsetsAreFixed(t *testing.T) {
	// abbreviations stand for fixed offsets; none of them may resolve
	// through the IANA database and pick up DST
	for name, offset := range ZoneOffsets {
		loc, err := zoneFromToken(name)
		assert.NoError(t, err, "for %q", name)
		for _, month := range []time.Month{time.January, time.July} {
			_, got := time.Date(2021, month, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, offset, got, "offset for %q moved in %v", name, month)
		}
	}
}
