package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
)

// Duration is a time.Duration that renders and parses with SurrealQL duration
// units and travels over CBOR as the compact [seconds, nanoseconds] tag 14.
type Duration time.Duration

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationUnits = []struct {
	unit string
	size time.Duration
}{
	{"y", year},
	{"w", week},
	{"d", day},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"µs", time.Microsecond},
	{"ns", time.Nanosecond},
}

// DurationUnits lists the unit suffixes SurrealQL accepts, largest first.
func DurationUnits() []string {
	units := make([]string, 0, len(durationUnits)+1)
	for _, u := range durationUnits {
		units = append(units, u.unit)
	}
	return append(units, "us")
}

// IsDurationUnit reports whether unit is a SurrealQL duration unit.
func IsDurationUnit(unit string) bool {
	return unitSize(unit) > 0
}

func unitSize(unit string) time.Duration {
	if unit == "us" {
		return time.Microsecond
	}
	for _, u := range durationUnits {
		if u.unit == unit {
			return u.size
		}
	}
	return 0
}

// String formats d as SurrealDB does, e.g. 1h30m or 2w3d.
func (d Duration) String() string {
	rest := time.Duration(d)
	if rest == 0 {
		return "0ns"
	}

	var b strings.Builder
	if rest < 0 {
		b.WriteByte('-')
		rest = -rest
	}
	for _, u := range durationUnits {
		if n := rest / u.size; n > 0 {
			b.WriteString(strconv.FormatInt(int64(n), 10))
			b.WriteString(u.unit)
			rest -= n * u.size
		}
	}
	return b.String()
}

func (d Duration) SurrealQL() string {
	return d.String()
}

// ParseDuration parses a SurrealQL duration such as 1h30m or 500ms.
func ParseDuration(s string) (Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	in := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var total time.Duration
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration %q", in)
		}
		n, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", in, err)
		}
		s = s[i:]

		j := 0
		for j < len(s) && (s[j] < '0' || s[j] > '9') {
			j++
		}
		size := unitSize(s[:j])
		if size == 0 {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", in, s[:j])
		}
		total += time.Duration(n) * size
		s = s[j:]
	}

	if neg {
		total = -total
	}
	return Duration(total), nil
}

func (d Duration) MarshalCBOR() ([]byte, error) {
	totalNS := time.Duration(d).Nanoseconds()
	s := totalNS / constants.OneSecondToNanoSecond
	ns := totalNS % constants.OneSecondToNanoSecond

	return getCborEncoder().Marshal(cbor.Tag{
		Number:  uint64(DurationCompactTag),
		Content: [2]int64{s, ns},
	})
}

func (d *Duration) UnmarshalCBOR(data []byte) error {
	var tag cbor.RawTag
	if err := getCborDecoder().Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag.Number != uint64(DurationCompactTag) {
		return fmt.Errorf("unexpected tag number for duration: got %d, want %d", tag.Number, DurationCompactTag)
	}

	// Trailing zero elements may be omitted by the server.
	var temp []int64
	if err := getCborDecoder().Unmarshal(tag.Content, &temp); err != nil {
		return err
	}
	var s, ns int64
	if len(temp) > 0 {
		s = temp[0]
	}
	if len(temp) > 1 {
		ns = temp[1]
	}

	*d = Duration(time.Duration(s)*time.Second + time.Duration(ns))

	return nil
}
