package whence

import (
	"fmt"
	"testing"
	"time"
)

/*

go test -bench Parse

BenchmarkShotgunParse	  37164	     31944 ns/op	   11296 B/op	    145 allocs/op
BenchmarkParse       	 316702	      3672 ns/op	     616 B/op	      15 allocs/op

*/
func BenchmarkShotgunParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, in := range benchInputs {
			parseShotgunStyle(in)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, in := range benchInputs {
			Parse(in)
		}
	}
}

var (
	benchInputs = []string{
		"1511648546",
		"2021-05-01T01:17:02.604456Z",
		"Wed, 02 Jun 2021 06:31:39 GMT",
		"2019-11-29 08:08:05-08",
		"2021-04-30 21:14:10.052282",
		"2017-11-25 13:31:15 PST",
		"2021-02-21",
		"4:00pm",
		"May 8, 2009 5:57:51 PM",
		"03/19/2012 10:11:59",
		"2014年04月08日",
	}

	errBenchFormat = fmt.Errorf("invalid date format")

	shotgunFormats = []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.UnixDate,
		time.RubyDate,
		time.ANSIC,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
)

func parseShotgunStyle(raw string) (time.Time, error) {
	for _, format := range shotgunFormats {
		t, err := time.Parse(format, raw)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBenchFormat
}
