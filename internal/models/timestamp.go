package models

import "time"

// Timestamp is the {seconds, nanoseconds} pair the web client expects for
// every time value on the wire. Absent times serialize as {0,0}.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// NewTimestamp converts a store time into its wire representation.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int64(t.Nanosecond()),
	}
}

// Time converts back to a time.Time in UTC. The zero Timestamp maps to the
// zero time, not the Unix epoch.
func (ts Timestamp) Time() time.Time {
	if ts == (Timestamp{}) {
		return time.Time{}
	}
	return time.Unix(ts.Seconds, ts.Nanoseconds).UTC()
}
