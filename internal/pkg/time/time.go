// Package time holds time helpers shared by the config and model layers.
package time

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the canonical text form of entity timestamps.
const Layout = "2006-01-02T15:04:05.000000"

// Duration is a time.Duration that reads and writes JSON as "1m30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Now returns the current UTC time truncated to the precision kept by
// Layout and by database timestamp columns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse reads a timestamp written by Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}
