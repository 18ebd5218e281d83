// Package timeutil converts between the fixed local display zone and the
// stored UTC timestamp format. Both directions degrade to a safe default
// instead of returning errors: the admin panel must never fail a save
// because of an unparsable date field.
package timeutil

import (
	"time"
)

// Stored timestamps are second-precision UTC with a literal Z suffix.
// Local datetime-local form fields use minute precision.
const (
	StoredFormat     = "2006-01-02T15:04:05Z"
	LocalInputFormat = "2006-01-02T15:04"
	DateFormat       = "2006-01-02"
)

// localZoneName is the fixed display zone, DST rules included.
const localZoneName = "Europe/Warsaw"

// Clock supplies the current instant. Injectable for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Converter translates wall-clock input in the local zone to stored UTC
// timestamps and back.
type Converter struct {
	loc   *time.Location
	clock Clock
}

// NewConverter loads the local zone and returns a converter using the system
// clock. Zone load only fails when the tz database is missing entirely; in
// that case CET without DST is a closer default than UTC.
func NewConverter() *Converter {
	return NewConverterWithClock(SystemClock{})
}

// NewConverterWithClock is NewConverter with an explicit clock.
func NewConverterWithClock(clock Clock) *Converter {
	loc, err := time.LoadLocation(localZoneName)
	if err != nil {
		loc = time.FixedZone("CET", 60*60)
	}
	return &Converter{loc: loc, clock: clock}
}

// ToStored interprets a datetime-local field value as wall-clock time in the
// local zone and returns it as stored UTC. Empty or unparsable input yields
// the current UTC instant.
func (c *Converter) ToStored(local string) string {
	if local == "" {
		return c.NowStored()
	}

	t, err := time.ParseInLocation(LocalInputFormat, local, c.loc)
	if err != nil {
		// Seconds are optional in datetime-local values.
		t, err = time.ParseInLocation("2006-01-02T15:04:05", local, c.loc)
	}
	if err != nil {
		return c.NowStored()
	}

	return t.UTC().Format(StoredFormat)
}

// ToLocalInput converts a stored UTC timestamp to the local zone in
// datetime-local form. Empty or unparsable input yields the empty string.
func (c *Converter) ToLocalInput(stored string) string {
	if stored == "" {
		return ""
	}

	t, err := time.Parse(StoredFormat, stored)
	if err != nil {
		t, err = time.Parse(time.RFC3339, stored)
	}
	if err != nil {
		return ""
	}

	return t.In(c.loc).Format(LocalInputFormat)
}

// NowUTC returns the current instant in UTC, for date arithmetic over
// stored timestamps.
func (c *Converter) NowUTC() time.Time {
	return c.clock.Now().UTC()
}

// NowStored returns the current instant in stored form.
func (c *Converter) NowStored() string {
	return c.clock.Now().UTC().Format(StoredFormat)
}

// Today returns the current date in the local zone, YYYY-MM-DD.
func (c *Converter) Today() string {
	return c.clock.Now().In(c.loc).Format(DateFormat)
}
