package model

import "time"

// Bet is a single wager on a prop.
//
// SharpFollowed is ground truth: it names the sharp a tailing group member
// copied and is empty for noise bets. Detection never reads it.
type Bet struct {
	BetID         string    `json:"bet_id"`
	Timestamp     time.Time `json:"timestamp"`
	UserID        string    `json:"user_id"`
	PropID        string    `json:"prop_id"`
	SharpFollowed string    `json:"sharp_followed,omitempty"`
}

// IsTail reports whether the bet was emitted by a tailing group member.
func (b Bet) IsTail() bool {
	return b.SharpFollowed != ""
}
