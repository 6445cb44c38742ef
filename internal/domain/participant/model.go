package participant

import "time"

// Participant is a pool member. Name is unique case-insensitively and
// RegistrationOrder is a unique integer used both for display ordering and
// as the final ranking tie-break.
type Participant struct {
	ID                int64
	Name              string
	RegistrationOrder int
	CreatedAt         time.Time
	Picks             []Pick
}

// Pick is one ranked club choice. Priority 1 is the participant's
// highest-priority club. TeamID references the internal team key.
type Pick struct {
	ID       int64
	TeamID   int64
	Priority int
}
