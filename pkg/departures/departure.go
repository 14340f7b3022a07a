package departures

import (
	"time"
)

// Departure is a single upcoming departure at a stop, already resolved to an
// absolute zone-aware instant. Values are never mutated after construction -
// display canonicalisation produces a copy.
type Departure struct {
	When        time.Time `json:"when" csv:"when" groups:"basic"`
	Destination string    `json:"destination" csv:"destination" groups:"basic"`
	Source      Source    `json:"source" csv:"source" groups:"basic"`

	Line      string `json:"line,omitempty" csv:"line" groups:"basic"`
	Direction string `json:"direction,omitempty" csv:"direction" groups:"basic"`

	// Stops is the set of stop names reachable on this departure's scheduled
	// interval, when the timetable provided one. Used for matching a
	// "towards" query against intermediate stops rather than just the
	// terminus.
	Stops []string `json:"-" csv:"-"`
}

type Source string

const (
	SourceLive      Source = "live"
	SourceScheduled Source = "scheduled"
)
